// Package spells loads the compendium spell table.
package spells

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/suplanner-data/internal/ident"
	"github.com/cory-johannsen/suplanner-data/internal/table"
)

// ErrDuplicateUID is returned when two differently named spells derive the
// same uid.
var ErrDuplicateUID = errors.New("duplicate spell uid")

// Spell is one spell gem.
type Spell struct {
	Name        string `json:"name"`
	Class       string `json:"class"`
	Charges     string `json:"charges"`
	Description string `json:"description"`
	SearchText  string `json:"search_text"`
	UID         string `json:"uid"`
}

// Report counts the recoverable problems found while loading spells.
type Report struct {
	// Merged counts rows that replaced an earlier row with the same name.
	Merged int
}

// Load reads the spells file at path.
func Load(path string, logger *zap.Logger) ([]Spell, Report, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, Report{}, err
	}
	spells, report, err := FromTable(t, logger)
	if err != nil {
		return nil, report, fmt.Errorf("loading spells from %s: %w", path, err)
	}
	return spells, report, nil
}

// FromTable converts spell rows into spells keyed by name: a later row with
// the same name replaces the earlier one and is logged.
//
// Postcondition: Returns spells sorted by name with pairwise distinct UIDs,
// or an error wrapping ErrDuplicateUID or table.ErrMissingColumn.
func FromTable(t *table.Table, logger *zap.Logger) ([]Spell, Report, error) {
	var report Report
	if err := t.Require("Spell Name", "Class", "Charges", "Spell Description"); err != nil {
		return nil, report, err
	}

	byName := make(map[string]Spell, len(t.Rows))
	uidOwner := make(map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		s := Spell{
			Name:        row.Get("Spell Name"),
			Class:       row.Get("Class"),
			Charges:     row.Get("Charges"),
			Description: row.Get("Spell Description"),
		}
		s.SearchText = strings.Join([]string{s.Class, s.Name, s.Charges, s.Description}, " ")
		s.UID = UID(s.Name, s.Class)

		if owner, ok := uidOwner[s.UID]; ok && owner != s.Name {
			return nil, report, fmt.Errorf("%w %q on row %d: %q and %q",
				ErrDuplicateUID, s.UID, i+1, s.Name, owner)
		}
		if prev, ok := byName[s.Name]; ok {
			logger.Warn("duplicate spell name, keeping the later row",
				zap.String("spell", s.Name),
				zap.String("replaced_uid", prev.UID),
				zap.Int("row", i+1),
			)
			delete(uidOwner, prev.UID)
			report.Merged++
		}
		uidOwner[s.UID] = s.Name
		byName[s.Name] = s
	}

	out := make([]Spell, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, report, nil
}

// UID hashes the lower-cased name followed by the class as written, keeping
// only the letters a-z. Capitals in the class drop out, which existing build
// strings depend on.
//
// Postcondition: result is 6 hex characters.
func UID(name, class string) string {
	return ident.HashID(ident.Letters(strings.ToLower(name) + class))
}
