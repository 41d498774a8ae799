// Package relics loads the compendium relic table into one record per relic
// with its per-rank perks.
package relics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/suplanner-data/internal/ident"
	"github.com/cory-johannsen/suplanner-data/internal/table"
)

var (
	// ErrDuplicateUID is returned when two differently named relics derive the
	// same uid.
	ErrDuplicateUID = errors.New("duplicate relic uid")
	// ErrShortName is returned when a relic name has too few letters to derive
	// a uid from.
	ErrShortName = errors.New("relic name too short for uid")
)

// uidPositions are the letter positions of the cleaned name that form a uid.
var uidPositions = [2]int{5, 12}

// Perk is the bonus a relic grants at one rank.
type Perk struct {
	Rank        string `json:"rank"`
	Description string `json:"description"`
}

// Relic is one relic with its rank perks in file order.
type Relic struct {
	Name         string `json:"name"`
	StatBonus    string `json:"stat_bonus"`
	Abbreviation string `json:"abbreviation"`
	UID          string `json:"uid"`
	Perks        []Perk `json:"perks"`
}

// Load reads the relics file at path.
func Load(path string) ([]Relic, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	relics, err := FromTable(t)
	if err != nil {
		return nil, fmt.Errorf("loading relics from %s: %w", path, err)
	}
	return relics, nil
}

// FromTable groups relic rows by name. Relic-level fields come from the first
// row of each group; every row contributes one Perk.
//
// Postcondition: Returns relics sorted by name with pairwise distinct UIDs,
// or an error wrapping ErrDuplicateUID, ErrShortName or table.ErrMissingColumn.
func FromTable(t *table.Table) ([]Relic, error) {
	if err := t.Require("Relic", "Stat Bonus", "Rank", "Relic Description"); err != nil {
		return nil, err
	}

	byName := make(map[string]*Relic)
	uids := make(map[string]string)
	var order []string
	for i, row := range t.Rows {
		name := row.Get("Relic")
		uid, cleaned, err := UID(name)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if other, ok := uids[uid]; ok && other != name {
			return nil, fmt.Errorf("%w %q: %q (%s) and %q", ErrDuplicateUID, uid, name, cleaned, other)
		}
		uids[uid] = name

		r, ok := byName[name]
		if !ok {
			r = &Relic{
				Name:         name,
				StatBonus:    row.Get("Stat Bonus"),
				Abbreviation: Abbreviation(name),
				UID:          uid,
				Perks:        []Perk{},
			}
			byName[name] = r
			order = append(order, name)
		}
		r.Perks = append(r.Perks, Perk{
			Rank:        row.Get("Rank"),
			Description: row.Get("Relic Description"),
		})
	}

	out := make([]Relic, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UID derives a relic's two-letter uid: the letters at positions 5 and 12 of
// the name reduced to lower-case a-z. It also returns that reduced name.
//
// Postcondition: Returns an error wrapping ErrShortName when the reduced name
// has fewer than 13 letters.
func UID(name string) (uid, cleaned string, err error) {
	cleaned = ident.Letters(strings.ToLower(name))
	if len(cleaned) <= uidPositions[1] {
		return "", cleaned, fmt.Errorf("%w: %q has %d letters", ErrShortName, name, len(cleaned))
	}
	return string([]byte{cleaned[uidPositions[0]], cleaned[uidPositions[1]]}), cleaned, nil
}

// Abbreviation is the part of the name before the first comma with " & " and
// spaces removed, e.g. "Ring of Fire & Ice, the Bold" -> "RingofFireIce".
func Abbreviation(name string) string {
	head, _, _ := strings.Cut(name, ",")
	head = strings.ReplaceAll(head, " & ", "")
	return strings.ReplaceAll(head, " ", "")
}
