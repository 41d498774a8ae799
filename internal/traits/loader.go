package traits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/suplanner-data/internal/ident"
	"github.com/cory-johannsen/suplanner-data/internal/table"
)

// ErrDuplicateUID is returned when two trait rows derive the same uid.
var ErrDuplicateUID = errors.New("duplicate trait uid")

// searchColumns feed search_text, in this order.
var searchColumns = []string{"Class", "Creature", "Family", "Trait Name", "Trait Description", "Material Name"}

// LoadCompendium reads the compendium traits file at path.
//
// Postcondition: Returns the records in file order and the compendium
// version, or a non-nil error.
func LoadCompendium(path string) ([]Record, string, error) {
	version, t, err := table.ReadVersionedFile(path)
	if err != nil {
		return nil, "", err
	}
	records, err := FromTable(t)
	if err != nil {
		return nil, "", fmt.Errorf("loading traits from %s: %w", path, err)
	}
	return records, version, nil
}

// FromTable converts compendium rows into records and assigns each its uid.
//
// Precondition: t must carry every column in searchColumns.
// Postcondition: Returns records with pairwise distinct UIDs, or an error
// wrapping ErrDuplicateUID or table.ErrMissingColumn.
func FromTable(t *table.Table) ([]Record, error) {
	if err := t.Require(searchColumns...); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(t.Rows))
	seen := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		rec := Record{
			Family:           row.Trimmed("Family"),
			Creature:         row.Trimmed("Creature"),
			TraitName:        row.Trimmed("Trait Name"),
			Class:            row.Trimmed("Class"),
			TraitDescription: row.Trimmed("Trait Description"),
			MaterialName:     row.Trimmed("Material Name"),
			Extra:            table.Collect(row, recordKeys),
		}
		rec.SearchText = searchText(row)
		rec.UID = UID(rec.Family, rec.Creature, rec.TraitName)

		if prev, dup := seen[rec.UID]; dup {
			return nil, fmt.Errorf("%w %q: row %d (%s) collides with row %d",
				ErrDuplicateUID, rec.UID, i+1, rec.TraitName, prev+1)
		}
		seen[rec.UID] = i
		records = append(records, rec)
	}
	return records, nil
}

// UID derives a trait's identifier from its family, creature and trait name.
// Trait names alone are not unique, so all three take part.
//
// Postcondition: result is the first 6 hex characters of
// md5(lower("family_creature_trait")).
func UID(family, creature, traitName string) string {
	return ident.HashID(ident.UniqueName(family, creature, traitName))
}

// searchText concatenates the untrimmed search columns so the front end can
// filter on a single field.
func searchText(row table.Row) string {
	parts := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		parts[i] = row.Get(col)
	}
	return strings.Join(parts, " ")
}
