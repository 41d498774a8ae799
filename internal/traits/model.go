// Package traits builds the creature trait dataset: compendium rows joined
// with external stats, sprites, and god shop locations.
package traits

import (
	"encoding/json"

	"github.com/cory-johannsen/suplanner-data/internal/table"
)

// StatNames lists the stat keys in their display order.
var StatNames = []string{"health", "attack", "intelligence", "defense", "speed", "total"}

// Stats holds a creature's base combat stats.
type Stats struct {
	Health       int `json:"health"`
	Attack       int `json:"attack"`
	Intelligence int `json:"intelligence"`
	Defense      int `json:"defense"`
	Speed        int `json:"speed"`
	Total        int `json:"total"`
}

// Map returns the stats keyed by StatNames.
func (s Stats) Map() map[string]int {
	return map[string]int{
		"health":       s.Health,
		"attack":       s.Attack,
		"intelligence": s.Intelligence,
		"defense":      s.Defense,
		"speed":        s.Speed,
		"total":        s.Total,
	}
}

// Record is one (family, creature, trait) row of the compendium.
//
// Invariant: UID is unique across all records of a build.
type Record struct {
	Family           string   `json:"family"`
	Creature         string   `json:"creature"`
	TraitName        string   `json:"trait_name"`
	Class            string   `json:"class"`
	TraitDescription string   `json:"trait_description"`
	MaterialName     string   `json:"material_name"`
	SearchText       string   `json:"search_text"`
	UID              string   `json:"uid"`
	Stats            *Stats   `json:"stats,omitempty"`
	SpriteFilename   string   `json:"sprite_filename,omitempty"`
	Sources          []string `json:"sources,omitempty"`

	// Extra carries the remaining compendium columns through to the output.
	Extra table.Extra `json:"-"`
}

var recordKeys = table.KeySet(
	"family", "creature", "trait_name", "class", "trait_description", "material_name",
	"search_text", "uid", "stats", "sprite_filename", "sources",
)

type recordAlias Record

// MarshalJSON emits the typed fields merged with Extra.
func (r Record) MarshalJSON() ([]byte, error) {
	return table.MarshalWithExtra(recordAlias(r), r.Extra)
}

// UnmarshalJSON reads the typed fields and collects any other string members
// into Extra.
func (r *Record) UnmarshalJSON(data []byte) error {
	var a recordAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := table.SplitExtra(data, recordKeys)
	if err != nil {
		return err
	}
	a.Extra = extra
	*r = Record(a)
	return nil
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.Stats != nil {
		s := *r.Stats
		out.Stats = &s
	}
	if r.Sources != nil {
		out.Sources = append([]string(nil), r.Sources...)
	}
	if r.Extra != nil {
		out.Extra = make(table.Extra, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// creatureClasses are the classes whose traits belong to summonable creatures,
// as opposed to backer or boss traits.
var creatureClasses = map[string]bool{
	"Nature":  true,
	"Death":   true,
	"Chaos":   true,
	"Life":    true,
	"Sorcery": true,
}

// IsCreatureClass reports whether class is one of the five creature classes.
func IsCreatureClass(class string) bool {
	return creatureClasses[class]
}
