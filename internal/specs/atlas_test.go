package specs_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/suplanner-data/internal/specs"
)

var (
	red     = color.NRGBA{R: 255, A: 255}
	magenta = color.NRGBA{R: 255, B: 255, A: 255}
)

func solid(c color.NRGBA, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func specWithPerks(name string, icons ...string) specs.Specialization {
	s := specs.Specialization{Name: name, Abbreviation: name[:2], Perks: []specs.Perk{}}
	for _, icon := range icons {
		s.Perks = append(s.Perks, specs.Perk{Name: icon, Spec: name, Icon: icon})
	}
	return s
}

func iconSource(t *testing.T) specs.IconSource {
	return specs.IconSource{
		FS: fstest.MapFS{
			"red.png": &fstest.MapFile{Data: pngBytes(t, solid(red, specs.CellSize))},
		},
		Missing: solid(magenta, specs.CellSize),
	}
}

func TestBuildAtlas_Dimensions(t *testing.T) {
	input := []specs.Specialization{
		specWithPerks("Warden", "red.png", "red.png", "red.png"),
		specWithPerks("Hellknight", "red.png", "red.png", "red.png", "red.png", "red.png"),
	}
	out, sheet, _, err := specs.BuildAtlas(input, iconSource(t), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 80, sheet.Bounds().Dx())
	assert.Equal(t, 32, sheet.Bounds().Dy())
	require.NotNil(t, out[1].Perks[2].IconCoords)
	assert.Equal(t, specs.Coords{32, 16}, *out[1].Perks[2].IconCoords)
	assert.Equal(t, specs.Coords{0, 0}, *out[0].Perks[0].IconCoords)
}

func TestBuildAtlas_PixelsAndTransparency(t *testing.T) {
	input := []specs.Specialization{
		specWithPerks("Warden", "red.png"),
		specWithPerks("Hellknight", "red.png", "absent.png"),
	}
	_, sheet, report, err := specs.BuildAtlas(input, iconSource(t), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, red, sheet.NRGBAAt(0, 0))
	assert.Equal(t, red, sheet.NRGBAAt(15, 15))
	assert.Equal(t, uint8(0), sheet.NRGBAAt(16, 0).A, "unused cell stays transparent")
	assert.Equal(t, magenta, sheet.NRGBAAt(20, 20), "missing file uses the missing icon")
	assert.Equal(t, 1, report.MissingFiles)
}

func TestBuildAtlas_MissingFileWarns(t *testing.T) {
	logger, logs := observed()
	input := []specs.Specialization{specWithPerks("Warden", specs.MissingIcon)}
	_, _, _, err := specs.BuildAtlas(input, iconSource(t), logger)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("missing perk icon file").Len())
}

func TestBuildAtlas_InputUntouched(t *testing.T) {
	input := []specs.Specialization{specWithPerks("Warden", "red.png")}
	_, _, _, err := specs.BuildAtlas(input, iconSource(t), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, input[0].Perks[0].IconCoords)
}

func TestBuildAtlas_Empty(t *testing.T) {
	_, _, _, err := specs.BuildAtlas(nil, iconSource(t), zap.NewNop())
	assert.ErrorIs(t, err, specs.ErrEmptyAtlas)

	_, _, _, err = specs.BuildAtlas([]specs.Specialization{specWithPerks("Warden")}, iconSource(t), zap.NewNop())
	assert.ErrorIs(t, err, specs.ErrEmptyAtlas)
}

func TestBuildAtlas_CorruptIcon(t *testing.T) {
	src := iconSource(t)
	src.FS = fstest.MapFS{"bad.png": &fstest.MapFile{Data: []byte("not a png")}}
	_, _, _, err := specs.BuildAtlas([]specs.Specialization{specWithPerks("Warden", "bad.png")}, src, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadImageAndEncodePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MISSING_ICON.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, solid(magenta, 4)), 0644))

	img, err := specs.LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	data, err := specs.EncodePNG(img)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	_, err = specs.LoadImage(filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
}
