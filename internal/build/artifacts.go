package build

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"reflect"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/suplanner-data/internal/relics"
	"github.com/cory-johannsen/suplanner-data/internal/specs"
	"github.com/cory-johannsen/suplanner-data/internal/spells"
	"github.com/cory-johannsen/suplanner-data/internal/traits"
)

// Output file names, relative to the output directory.
const (
	DataFile                  = "data.json"
	MetadataFile              = "metadata.json"
	SpecializationsFile       = "specializations.json"
	PrettySpecializationsFile = "specializations_pretty.json"
	RelicsFile                = "relics.json"
	SpellsFile                = "spells.json"
	ManifestFile              = "manifest.yaml"
)

// ErrRoundTrip is returned when an encoded artifact does not decode back to
// the value it was produced from.
var ErrRoundTrip = errors.New("artifact does not survive a JSON round trip")

// Report counts the non-fatal problems seen during a build.
type Report struct {
	MissingTraits    int `yaml:"missing_traits"`
	MissingSprites   int `yaml:"missing_sprites"`
	MissingLocations int `yaml:"missing_godshop_locations"`
	MissingPerkIcons int `yaml:"missing_perk_icons"`
	MissingIconFiles int `yaml:"missing_perk_icon_files"`
	MergedSpells     int `yaml:"merged_duplicate_spells"`
}

// Artifacts holds every computed output of a build, before serialisation.
type Artifacts struct {
	BuildID         string
	BuiltAt         time.Time
	Traits          []traits.Record
	Metadata        traits.Metadata
	Specializations []specs.Specialization
	Atlas           *image.NRGBA
	Relics          []relics.Relic
	Spells          []spells.Spell
	Report          Report
}

// File is one encoded output. Atlas marks the icon sheet, which is written to
// the configured atlas path rather than the output directory.
type File struct {
	Name  string
	Data  []byte
	Atlas bool
}

// Manifest describes a finished build.
type Manifest struct {
	BuildID           string         `yaml:"build_id"`
	BuiltAt           time.Time      `yaml:"built_at"`
	CompendiumVersion string         `yaml:"compendium_version"`
	Counts            map[string]int `yaml:"counts"`
	Warnings          Report         `yaml:"warnings"`
}

// Manifest summarises the artifacts.
func (a *Artifacts) Manifest() Manifest {
	perks := 0
	for _, s := range a.Specializations {
		perks += len(s.Perks)
	}
	return Manifest{
		BuildID:           a.BuildID,
		BuiltAt:           a.BuiltAt.UTC(),
		CompendiumVersion: a.Metadata.CompendiumVersion,
		Counts: map[string]int{
			"traits":          len(a.Traits),
			"specializations": len(a.Specializations),
			"perks":           perks,
			"relics":          len(a.Relics),
			"spells":          len(a.Spells),
		},
		Warnings: a.Report,
	}
}

// Encode serialises every artifact and checks that each JSON payload decodes
// back to an equal value.
//
// Precondition: a.Atlas must be non-nil.
// Postcondition: returns one File per output, or an error and no files.
func (a *Artifacts) Encode() ([]File, error) {
	if a.Atlas == nil {
		return nil, errors.New("encoding artifacts: atlas has not been built")
	}

	var files []File
	add := func(name string, data []byte, err error) error {
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		files = append(files, File{Name: name, Data: data})
		return nil
	}

	data, err := encodeChecked(a.Traits, " ")
	if err := add(DataFile, data, err); err != nil {
		return nil, err
	}
	data, err = encodeChecked(a.Metadata, "")
	if err := add(MetadataFile, data, err); err != nil {
		return nil, err
	}
	data, err = encodeChecked(a.Specializations, "")
	if err := add(SpecializationsFile, data, err); err != nil {
		return nil, err
	}
	data, err = encodeChecked(a.Specializations, " ")
	if err := add(PrettySpecializationsFile, data, err); err != nil {
		return nil, err
	}
	data, err = encodeChecked(a.Relics, "")
	if err := add(RelicsFile, data, err); err != nil {
		return nil, err
	}
	data, err = encodeChecked(a.Spells, "")
	if err := add(SpellsFile, data, err); err != nil {
		return nil, err
	}
	data, err = yaml.Marshal(a.Manifest())
	if err := add(ManifestFile, data, err); err != nil {
		return nil, err
	}

	png, err := specs.EncodePNG(a.Atlas)
	if err != nil {
		return nil, fmt.Errorf("encoding atlas: %w", err)
	}
	files = append(files, File{Data: png, Atlas: true})
	return files, nil
}

// encodeChecked marshals v without HTML escaping, indenting when indent is
// non-empty, then decodes the result into a fresh T and compares.
func encodeChecked[T any](v T, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	var back T
	if err := json.Unmarshal(data, &back); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoundTrip, err)
	}
	if !reflect.DeepEqual(v, back) {
		return nil, ErrRoundTrip
	}
	return data, nil
}
