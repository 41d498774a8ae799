package traits

import (
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/suplanner-data/internal/suggest"
	"github.com/cory-johannsen/suplanner-data/internal/table"
)

// MissingSprite replaces a sprite filename that does not exist on disk.
const MissingSprite = "MISSING.png"

// Creature is one entry of the external creature dataset.
type Creature struct {
	Stats          Stats
	SpriteFilename string
	Sources        []string
}

// LoadCreatures reads the external creatures file keyed by lower-cased trait.
func LoadCreatures(path string) (map[string]Creature, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	creatures, err := CreaturesFromTable(t)
	if err != nil {
		return nil, fmt.Errorf("loading creatures from %s: %w", path, err)
	}
	return creatures, nil
}

// CreaturesFromTable converts creature rows into a lookup by lower-cased
// trait name. Later rows replace earlier ones with the same trait.
//
// Postcondition: Returns the lookup or an error for a missing column or a
// non-integer stat.
func CreaturesFromTable(t *table.Table) (map[string]Creature, error) {
	if err := t.Require(append([]string{"trait", "battle_sprite", "sources"}, StatNames...)...); err != nil {
		return nil, err
	}

	out := make(map[string]Creature, len(t.Rows))
	for i, row := range t.Rows {
		var vals [6]int
		for j, name := range StatNames {
			v, err := strconv.Atoi(strings.TrimSpace(row.Get(name)))
			if err != nil {
				return nil, fmt.Errorf("row %d: stat %s: %w", i+1, name, err)
			}
			vals[j] = v
		}
		out[strings.ToLower(row.Get("trait"))] = Creature{
			Stats: Stats{
				Health:       vals[0],
				Attack:       vals[1],
				Intelligence: vals[2],
				Defense:      vals[3],
				Speed:        vals[4],
				Total:        vals[5],
			},
			SpriteFilename: row.Get("battle_sprite"),
			Sources:        strings.Split(row.Get("sources"), ", "),
		}
	}
	return out, nil
}

// SpriteSet resolves battle sprite filenames against a sprite directory.
type SpriteSet struct {
	// FS is rooted at the sprite directory.
	FS fs.FS
	// Prefix is prepended to resolved filenames, e.g. "suapi-battle-sprites".
	Prefix string
}

// Resolve returns the front-end relative path of filename when it names a
// regular file in the set.
func (s SpriteSet) Resolve(filename string) (string, bool) {
	if s.FS == nil || filename == "" || !fs.ValidPath(filename) {
		return "", false
	}
	info, err := fs.Stat(s.FS, filename)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path.Join(s.Prefix, filename), true
}

// EnrichReport counts the recoverable problems found while enriching.
type EnrichReport struct {
	// MissingTraits counts creature-class traits absent from the creature data.
	MissingTraits int
	// MissingSprites counts matched traits whose sprite file does not exist.
	MissingSprites int
}

// AddStatsAndSprites attaches stats, sprite and sources from creatures to every
// record whose lower-cased trait name matches, then validates the result:
// creature-class traits without a match are reported, and matched sprites are
// resolved against sprites or replaced with MissingSprite.
//
// Postcondition: records is not modified; the returned slice holds updated
// copies in the same order.
func AddStatsAndSprites(
	records []Record,
	creatures map[string]Creature,
	sprites SpriteSet,
	logger *zap.Logger,
) ([]Record, EnrichReport) {
	var report EnrichReport
	known := suggest.FromMap(creatures)

	out := make([]Record, len(records))
	for i, rec := range records {
		rec = rec.Clone()
		key := strings.ToLower(rec.TraitName)
		c, ok := creatures[key]
		if ok {
			stats := c.Stats
			rec.Stats = &stats
			rec.SpriteFilename = c.SpriteFilename
			rec.Sources = append([]string(nil), c.Sources...)
		}

		switch {
		case !ok && IsCreatureClass(rec.Class):
			fields := []zap.Field{
				zap.String("creature", rec.Creature),
				zap.String("trait", rec.TraitName),
			}
			if near, found := known.Closest(key); found {
				fields = append(fields, zap.String("did_you_mean", near))
			}
			logger.Warn("trait does not appear in creature data", fields...)
			report.MissingTraits++
		case ok:
			if resolved, found := sprites.Resolve(c.SpriteFilename); found {
				rec.SpriteFilename = resolved
			} else {
				logger.Info("sprite is not present",
					zap.String("creature", rec.Creature),
					zap.String("sprite", c.SpriteFilename),
				)
				rec.SpriteFilename = MissingSprite
				report.MissingSprites++
			}
		}
		out[i] = rec
	}

	if report.MissingTraits > 0 {
		logger.Warn("traits attached to creatures are missing from the creature data",
			zap.Int("count", report.MissingTraits))
	}
	if report.MissingSprites > 0 {
		logger.Warn("traits have sprite filenames that do not exist",
			zap.Int("count", report.MissingSprites))
	}
	return out, report
}
