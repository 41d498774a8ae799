// Package specs loads specializations with their perks and lays out the perk
// icon sheet the front end slices icons from.
package specs

import (
	"encoding/json"

	"github.com/cory-johannsen/suplanner-data/internal/table"
)

// MissingIcon is the icon filename used when a perk has no known icon.
const MissingIcon = "MISSING_ICON.png"

// Coords is a pixel offset (x, y) into the icon atlas.
type Coords [2]int

// X returns the horizontal offset.
func (c Coords) X() int { return c[0] }

// Y returns the vertical offset.
func (c Coords) Y() int { return c[1] }

// Perk is one perk of a specialization.
type Perk struct {
	Name       string  `json:"name"`
	Spec       string  `json:"spec"`
	SpecAbbrev string  `json:"spec_abbrev"`
	UID        string  `json:"uid"`
	Icon       string  `json:"icon"`
	IconCoords *Coords `json:"icon_coords,omitempty"`

	// Extra carries the remaining perk columns (description, cost, ...).
	Extra table.Extra `json:"-"`
}

var perkKeys = table.KeySet("name", "spec", "spec_abbrev", "uid", "icon", "icon_coords", "specialization")

type perkAlias Perk

// MarshalJSON emits the typed fields merged with Extra.
func (p Perk) MarshalJSON() ([]byte, error) {
	return table.MarshalWithExtra(perkAlias(p), p.Extra)
}

// UnmarshalJSON reads the typed fields and collects other string members into Extra.
func (p *Perk) UnmarshalJSON(data []byte) error {
	var a perkAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := table.SplitExtra(data, perkKeys)
	if err != nil {
		return err
	}
	a.Extra = extra
	*p = Perk(a)
	return nil
}

// Specialization owns its perks in source order.
//
// Invariant: Abbreviation is unique across specializations.
type Specialization struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Perks        []Perk `json:"perks"`

	Extra table.Extra `json:"-"`
}

var specKeys = table.KeySet("name", "abbreviation", "perks")

type specAlias Specialization

// MarshalJSON emits the typed fields merged with Extra.
func (s Specialization) MarshalJSON() ([]byte, error) {
	return table.MarshalWithExtra(specAlias(s), s.Extra)
}

// UnmarshalJSON reads the typed fields and collects other string members into Extra.
func (s *Specialization) UnmarshalJSON(data []byte) error {
	var a specAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := table.SplitExtra(data, specKeys)
	if err != nil {
		return err
	}
	a.Extra = extra
	*s = Specialization(a)
	return nil
}

// Clone returns a deep copy of s, including its perks.
func (s Specialization) Clone() Specialization {
	out := s
	out.Extra = cloneExtra(s.Extra)
	out.Perks = make([]Perk, len(s.Perks))
	for i, p := range s.Perks {
		p.Extra = cloneExtra(p.Extra)
		if p.IconCoords != nil {
			c := *p.IconCoords
			p.IconCoords = &c
		}
		out.Perks[i] = p
	}
	return out
}

func cloneExtra(e table.Extra) table.Extra {
	if e == nil {
		return nil
	}
	out := make(table.Extra, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
