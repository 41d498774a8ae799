package traits

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/suplanner-data/internal/suggest"
	"github.com/cory-johannsen/suplanner-data/internal/table"
)

const godShopMarker = "God Shop"

// LoadGodShopLocations reads the god shop lookup keyed by lower-cased god name.
func LoadGodShopLocations(path string) (map[string]string, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := t.Require("God", "Location"); err != nil {
		return nil, fmt.Errorf("loading god shop locations from %s: %w", path, err)
	}
	locations := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		locations[strings.ToLower(row.Get("God"))] = row.Get("Location")
	}
	return locations, nil
}

// AddShopLocations appends " (<location>)" to every source that names a god
// shop whose god is in locations. Unknown gods are logged and their sources
// left as they are.
//
// Postcondition: records is not modified; the returned slice holds updated
// copies in the same order, and missing counts the unknown god shop sources.
func AddShopLocations(records []Record, locations map[string]string, logger *zap.Logger) (out []Record, missing int) {
	known := suggest.FromMap(locations)

	out = make([]Record, len(records))
	for i, rec := range records {
		rec = rec.Clone()
		for j, src := range rec.Sources {
			if !strings.Contains(src, godShopMarker) {
				continue
			}
			god, _, _ := strings.Cut(src, " "+godShopMarker)
			god = strings.ToLower(god)

			location, ok := locations[god]
			if !ok {
				fields := []zap.Field{zap.String("god", god), zap.String("source", src)}
				if near, found := known.Closest(god); found {
					fields = append(fields, zap.String("did_you_mean", near))
				}
				logger.Warn("missing god name in god shop locations", fields...)
				missing++
				continue
			}
			rec.Sources[j] = fmt.Sprintf("%s (%s)", src, location)
		}
		out[i] = rec
	}
	return out, missing
}
