package specs

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/suplanner-data/internal/ident"
	"github.com/cory-johannsen/suplanner-data/internal/suggest"
	"github.com/cory-johannsen/suplanner-data/internal/table"
)

var (
	// ErrUnknownSpecialization is returned for a perk naming a specialization
	// that is not in the specializations table.
	ErrUnknownSpecialization = errors.New("unknown specialization")
	// ErrDuplicateSpecialization is returned when two specializations share a
	// name or an abbreviation.
	ErrDuplicateSpecialization = errors.New("duplicate specialization")
	// ErrTooManyPerks is returned when a specialization has more perks than
	// there are letters to number them.
	ErrTooManyPerks = errors.New("too many perks")
)

// ascensionSuffix marks ascension perks, which share the base perk's icon.
const ascensionSuffix = " (ASCENSION)"

// Report counts the recoverable problems found while loading perks.
type Report struct {
	// MissingIcons counts perks with no entry in the icon lookup.
	MissingIcons int
}

// IconKey is the icon lookup key of a perk.
func IconKey(spec, perk string) string {
	return spec + "_" + perk
}

// LoadIconLookup reads the external perk table into a lookup of
// IconKey(specialization, name) to icon filename.
func LoadIconLookup(path string) (map[string]string, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := t.Require("specialization", "name", "icon"); err != nil {
		return nil, fmt.Errorf("loading perk icons from %s: %w", path, err)
	}
	icons := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		icons[IconKey(row.Get("specialization"), row.Get("name"))] = row.Get("icon")
	}
	return icons, nil
}

// Load reads the specializations and perks files and attaches icons from icons.
func Load(specsPath, perksPath string, icons map[string]string, logger *zap.Logger) ([]Specialization, Report, error) {
	specTable, err := table.ReadFile(specsPath)
	if err != nil {
		return nil, Report{}, err
	}
	perkTable, err := table.ReadFile(perksPath)
	if err != nil {
		return nil, Report{}, err
	}
	return FromTables(specTable, perkTable, icons, logger)
}

// FromTables builds specializations in file order and appends each perk, in
// file order, to the specialization it names. A perk's uid is its
// specialization's abbreviation followed by the letter of its position within
// that specialization, so uids depend on row order.
//
// Postcondition: Returns the specializations, or an error wrapping
// ErrUnknownSpecialization, ErrDuplicateSpecialization, ErrTooManyPerks or
// table.ErrMissingColumn.
func FromTables(specTable, perkTable *table.Table, icons map[string]string, logger *zap.Logger) ([]Specialization, Report, error) {
	var report Report
	if err := specTable.Require("name", "abbreviation"); err != nil {
		return nil, report, fmt.Errorf("specializations: %w", err)
	}
	if err := perkTable.Require("name", "specialization"); err != nil {
		return nil, report, fmt.Errorf("perks: %w", err)
	}

	specs := make([]Specialization, 0, len(specTable.Rows))
	byName := make(map[string]int, len(specTable.Rows))
	byAbbrev := make(map[string]string, len(specTable.Rows))
	for _, row := range specTable.Rows {
		s := Specialization{
			Name:         row.Trimmed("name"),
			Abbreviation: row.Trimmed("abbreviation"),
			Perks:        []Perk{},
			Extra:        table.CollectVerbatim(row, specKeys),
		}
		// Perks find their specialization by name, so a repeated name is ambiguous.
		if _, dup := byName[s.Name]; dup {
			return nil, report, fmt.Errorf("%w: name %q", ErrDuplicateSpecialization, s.Name)
		}
		if other, dup := byAbbrev[s.Abbreviation]; dup {
			return nil, report, fmt.Errorf("%w: abbreviation %q used by %q and %q",
				ErrDuplicateSpecialization, s.Abbreviation, other, s.Name)
		}
		byName[s.Name] = len(specs)
		byAbbrev[s.Abbreviation] = s.Name
		specs = append(specs, s)
	}

	known := suggest.FromMap(icons)
	for i, row := range perkTable.Rows {
		specName := row.Trimmed("specialization")
		idx, ok := byName[specName]
		if !ok {
			return nil, report, fmt.Errorf("%w %q on perk row %d", ErrUnknownSpecialization, specName, i+1)
		}
		spec := &specs[idx]

		letter, ok := ident.PositionLetter(len(spec.Perks))
		if !ok {
			return nil, report, fmt.Errorf("%w: %q has more than 26", ErrTooManyPerks, spec.Name)
		}

		p := Perk{
			Name:       row.Trimmed("name"),
			Spec:       spec.Name,
			SpecAbbrev: spec.Abbreviation,
			UID:        spec.Abbreviation + letter,
			Extra:      table.CollectVerbatim(row, perkKeys),
		}

		lookupName, _, _ := strings.Cut(p.Name, ascensionSuffix)
		key := IconKey(spec.Name, lookupName)
		icon, ok := icons[key]
		if !ok {
			fields := []zap.Field{zap.String("perk", lookupName), zap.String("spec", spec.Name)}
			if near, found := known.Closest(key); found {
				fields = append(fields, zap.String("did_you_mean", near))
			}
			logger.Warn("missing perk icon in perk icon data", fields...)
			icon = MissingIcon
			report.MissingIcons++
		}
		p.Icon = icon

		spec.Perks = append(spec.Perks, p)
	}
	return specs, report, nil
}
