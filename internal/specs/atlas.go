package specs

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// CellSize is the width and height in pixels of one icon cell.
const CellSize = 16

// ErrEmptyAtlas is returned when there are no specializations or no perks to
// lay out.
var ErrEmptyAtlas = errors.New("no perk icons to lay out")

// IconSource supplies perk icon images.
type IconSource struct {
	// FS is rooted at the perk icon directory.
	FS fs.FS
	// Missing is pasted for any icon that is not present in FS.
	Missing image.Image
}

// AtlasReport counts icons replaced by the missing-icon image.
type AtlasReport struct {
	MissingFiles int
}

// BuildAtlas composites every perk icon into one sheet: specialization i
// occupies row i and its perk j column j, each cell CellSize square. Cells
// past a specialization's last perk stay transparent.
//
// Postcondition: specs is not modified; the returned copies carry IconCoords
// for every perk, and the sheet is CellSize*maxPerks by CellSize*len(specs).
func BuildAtlas(specs []Specialization, icons IconSource, logger *zap.Logger) ([]Specialization, *image.NRGBA, AtlasReport, error) {
	var report AtlasReport
	maxPerks := 0
	for _, s := range specs {
		maxPerks = max(maxPerks, len(s.Perks))
	}
	if maxPerks == 0 {
		return nil, nil, report, ErrEmptyAtlas
	}

	sheet := image.NewNRGBA(image.Rect(0, 0, CellSize*maxPerks, CellSize*len(specs)))
	out := make([]Specialization, len(specs))
	for i, s := range specs {
		s = s.Clone()
		for j := range s.Perks {
			p := &s.Perks[j]
			img, err := icons.open(p.Icon)
			if err != nil {
				return nil, nil, report, fmt.Errorf("perk %q icon %q: %w", p.Name, p.Icon, err)
			}
			if img == nil {
				logger.Warn("missing perk icon file", zap.String("perk", p.Name), zap.String("icon", p.Icon))
				img = icons.Missing
				report.MissingFiles++
			}

			coords := Coords{j * CellSize, i * CellSize}
			cell := image.Rect(coords.X(), coords.Y(), coords.X()+CellSize, coords.Y()+CellSize)
			if img != nil {
				draw.Draw(sheet, cell, img, img.Bounds().Min, draw.Src)
			}
			p.IconCoords = &coords
		}
		out[i] = s
	}
	return out, sheet, report, nil
}

// open decodes the named icon. It returns a nil image without error when the
// file does not exist.
func (src IconSource) open(name string) (image.Image, error) {
	if src.FS == nil || name == "" || !fs.ValidPath(name) {
		return nil, nil
	}
	f, err := src.FS.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	return img, nil
}

// LoadImage decodes the image file at path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
