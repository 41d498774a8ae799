package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Inputs: InputsConfig{
			Traits:           "traits.csv",
			Creatures:        "creatures.csv",
			PerkIcons:        "perk_icons.csv",
			GodShopLocations: "godshop_locations.csv",
			Specializations:  "specializations.csv",
			Perks:            "perks.csv",
			Relics:           "relics.csv",
			Spells:           "spells.csv",
		},
		Assets: AssetsConfig{
			SpriteDir:   "public/suapi-battle-sprites",
			PerkIconDir: "icons",
			MissingIcon: "icons/MISSING_ICON.png",
			AtlasPath:   "out/perk_icons.png",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// defaults loads a Config from the built-in defaults only.
func defaults(t *testing.T) Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultIsValid(t *testing.T) {
	cfg := defaults(t)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "data/siralim-ultimate-api/creatures.csv", cfg.Inputs.Creatures)
	assert.Equal(t, "public/perk_icons/perk_icons.png", cfg.Assets.AtlasPath)
}

func TestSpritePrefix(t *testing.T) {
	a := AssetsConfig{SpriteDir: "public/suapi-battle-sprites/"}
	assert.Equal(t, "suapi-battle-sprites", a.SpritePrefix())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
inputs:
  traits: fixtures/traits.csv
  spells: fixtures/spells.csv
assets:
  sprite_dir: fixtures/sprites
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fixtures/traits.csv", cfg.Inputs.Traits)
	assert.Equal(t, "fixtures/spells.csv", cfg.Inputs.Spells)
	assert.Equal(t, "data/steam-guide/perks.csv", cfg.Inputs.Perks, "unset keys keep defaults")
	assert.Equal(t, "sprites", cfg.Assets.SpritePrefix())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaults(t), cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SUDATA_INPUTS_RELICS", "elsewhere/relics.csv")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere/relics.csv", cfg.Inputs.Relics)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateInputsEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Inputs.Traits = ""
	cfg.Inputs.Spells = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inputs.traits")
	assert.Contains(t, err.Error(), "inputs.spells")
}

func TestValidateAtlasExtension(t *testing.T) {
	cfg := validConfig()
	cfg.Assets.AtlasPath = "out/perk_icons.jpg"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFileNeedsSize(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.File = "build.log"
	cfg.Logging.MaxSizeMB = 0
	assert.Error(t, cfg.Validate())

	cfg.Logging.MaxSizeMB = 5
	assert.NoError(t, cfg.Validate())
}

// Property-based tests

func TestPropertyAnyEmptyInputRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.IntRange(0, 7).Draw(t, "idx")
		cfg := validConfig()
		fields := []*string{
			&cfg.Inputs.Traits, &cfg.Inputs.Creatures, &cfg.Inputs.PerkIcons,
			&cfg.Inputs.GodShopLocations, &cfg.Inputs.Specializations,
			&cfg.Inputs.Perks, &cfg.Inputs.Relics, &cfg.Inputs.Spells,
		}
		*fields[idx] = ""
		if err := cfg.Validate(); err == nil {
			t.Fatalf("empty input %d accepted", idx)
		}
	})
}

func TestPropertySpritePrefixIsBaseName(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parent := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "parent")
		base := rapid.StringMatching(`[a-z][a-z-]{0,12}`).Draw(t, "base")
		a := AssetsConfig{SpriteDir: filepath.Join(parent, base)}
		assert.Equal(t, base, a.SpritePrefix())
	})
}
