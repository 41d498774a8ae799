// Package build runs the whole data build: every dataset is loaded, joined and
// validated in memory first, and files are written only once all of that has
// succeeded.
package build

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/suplanner-data/internal/config"
	"github.com/cory-johannsen/suplanner-data/internal/relics"
	"github.com/cory-johannsen/suplanner-data/internal/specs"
	"github.com/cory-johannsen/suplanner-data/internal/spells"
	"github.com/cory-johannsen/suplanner-data/internal/traits"
)

// Builder orchestrates the data build for one configuration.
type Builder struct {
	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// New constructs a Builder.
//
// Precondition: cfg must be valid; logger must be non-nil.
// Postcondition: returns a non-nil Builder.
func New(cfg config.Config, logger *zap.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Run builds every artifact, encodes and validates it, then writes all files.
// Nothing is written when any stage fails.
//
// Postcondition: every output file exists under outputDir (the atlas at the
// configured atlas path), or an error is returned and no file was written.
func (b *Builder) Run(outputDir string) error {
	overall := time.Now()

	art, err := b.Build()
	if err != nil {
		return err
	}
	files, err := art.Encode()
	if err != nil {
		return err
	}
	if err := writeFiles(files, outputDir, b.cfg.Assets.AtlasPath); err != nil {
		return err
	}

	b.logger.Info("data building complete",
		zap.String("build_id", art.BuildID),
		zap.String("output", outputDir),
		zap.Int("files", len(files)),
		zap.Duration("elapsed", time.Since(overall)),
	)
	return nil
}

// Build runs the four independent chains and returns their results.
func (b *Builder) Build() (*Artifacts, error) {
	art := &Artifacts{BuildID: b.newID(), BuiltAt: b.now().UTC()}
	steps := []struct {
		name string
		run  func(*Artifacts) error
	}{
		{"traits", b.buildTraits},
		{"specializations", b.buildSpecializations},
		{"relics", b.buildRelics},
		{"spells", b.buildSpells},
	}
	for _, step := range steps {
		t0 := time.Now()
		if err := step.run(art); err != nil {
			return nil, fmt.Errorf("building %s: %w", step.name, err)
		}
		b.logger.Info("stage complete",
			zap.String("stage", step.name),
			zap.Duration("elapsed", time.Since(t0)),
		)
	}
	return art, nil
}

func (b *Builder) buildTraits(art *Artifacts) error {
	in, assets := b.cfg.Inputs, b.cfg.Assets

	records, version, err := traits.LoadCompendium(in.Traits)
	if err != nil {
		return err
	}
	b.logger.Info("using compendium version", zap.String("version", version))

	creatures, err := traits.LoadCreatures(in.Creatures)
	if err != nil {
		return err
	}
	sprites := traits.SpriteSet{FS: os.DirFS(assets.SpriteDir), Prefix: assets.SpritePrefix()}
	records, enrich := traits.AddStatsAndSprites(records, creatures, sprites, b.logger)

	locations, err := traits.LoadGodShopLocations(in.GodShopLocations)
	if err != nil {
		return err
	}
	records, missingLocations := traits.AddShopLocations(records, locations, b.logger)

	art.Traits = records
	art.Metadata = traits.Aggregate(version, records)
	art.Report.MissingTraits = enrich.MissingTraits
	art.Report.MissingSprites = enrich.MissingSprites
	art.Report.MissingLocations = missingLocations
	return nil
}

func (b *Builder) buildSpecializations(art *Artifacts) error {
	in, assets := b.cfg.Inputs, b.cfg.Assets

	icons, err := specs.LoadIconLookup(in.PerkIcons)
	if err != nil {
		return err
	}
	loaded, report, err := specs.Load(in.Specializations, in.Perks, icons, b.logger)
	if err != nil {
		return err
	}
	missing, err := specs.LoadImage(assets.MissingIcon)
	if err != nil {
		return fmt.Errorf("loading missing icon: %w", err)
	}
	laidOut, sheet, atlasReport, err := specs.BuildAtlas(loaded, specs.IconSource{
		FS:      os.DirFS(assets.PerkIconDir),
		Missing: missing,
	}, b.logger)
	if err != nil {
		return err
	}

	art.Specializations = laidOut
	art.Atlas = sheet
	art.Report.MissingPerkIcons = report.MissingIcons
	art.Report.MissingIconFiles = atlasReport.MissingFiles
	return nil
}

func (b *Builder) buildRelics(art *Artifacts) error {
	loaded, err := relics.Load(b.cfg.Inputs.Relics)
	if err != nil {
		return err
	}
	art.Relics = loaded
	return nil
}

func (b *Builder) buildSpells(art *Artifacts) error {
	loaded, report, err := spells.Load(b.cfg.Inputs.Spells, b.logger)
	if err != nil {
		return err
	}
	art.Spells = loaded
	art.Report.MergedSpells = report.Merged
	return nil
}
