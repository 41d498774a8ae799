// Package config provides Viper-based configuration loading for the data build.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InputsConfig holds the paths of every CSV dataset the build reads.
type InputsConfig struct {
	// Traits is the compendium traits table; its first line carries the version.
	Traits string `mapstructure:"traits"`
	// Creatures is the external per-creature stats and sprite table.
	Creatures string `mapstructure:"creatures"`
	// PerkIcons maps specialization and perk name to an icon filename.
	PerkIcons        string `mapstructure:"perk_icons"`
	GodShopLocations string `mapstructure:"godshop_locations"`
	Specializations  string `mapstructure:"specializations"`
	Perks            string `mapstructure:"perks"`
	Relics           string `mapstructure:"relics"`
	Spells           string `mapstructure:"spells"`
}

// AssetsConfig holds image locations used for sprite checks and the icon atlas.
type AssetsConfig struct {
	// SpriteDir is the directory battle sprites are resolved against.
	SpriteDir string `mapstructure:"sprite_dir"`
	// PerkIconDir is the directory perk icon images are read from.
	PerkIconDir string `mapstructure:"perk_icon_dir"`
	// MissingIcon is the image pasted in place of an absent perk icon.
	MissingIcon string `mapstructure:"missing_icon"`
	// AtlasPath is where the composited perk icon sheet is written.
	AtlasPath string `mapstructure:"atlas_path"`
}

// SpritePrefix returns the relative path prefix written into resolved sprite
// filenames.
//
// Postcondition: Returns the final element of SpriteDir.
func (a AssetsConfig) SpritePrefix() string {
	return filepath.Base(filepath.Clean(a.SpriteDir))
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File is an optional path; when set, logs are also written there with rotation.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Config is the top-level application configuration.
type Config struct {
	Inputs  InputsConfig  `mapstructure:"inputs"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateInputs(c.Inputs); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAssets(c.Assets); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateInputs(in InputsConfig) error {
	var errs []string
	required := []struct {
		key   string
		value string
	}{
		{"inputs.traits", in.Traits},
		{"inputs.creatures", in.Creatures},
		{"inputs.perk_icons", in.PerkIcons},
		{"inputs.godshop_locations", in.GodShopLocations},
		{"inputs.specializations", in.Specializations},
		{"inputs.perks", in.Perks},
		{"inputs.relics", in.Relics},
		{"inputs.spells", in.Spells},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, r.key+" must not be empty")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAssets(a AssetsConfig) error {
	var errs []string
	if a.SpriteDir == "" {
		errs = append(errs, "assets.sprite_dir must not be empty")
	}
	if a.PerkIconDir == "" {
		errs = append(errs, "assets.perk_icon_dir must not be empty")
	}
	if a.MissingIcon == "" {
		errs = append(errs, "assets.missing_icon must not be empty")
	}
	if a.AtlasPath == "" {
		errs = append(errs, "assets.atlas_path must not be empty")
	} else if !strings.EqualFold(filepath.Ext(a.AtlasPath), ".png") {
		errs = append(errs, fmt.Sprintf("assets.atlas_path must end in .png, got %q", a.AtlasPath))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.File != "" && l.MaxSizeMB < 1 {
		return errors.New("logging.max_size_mb must be >= 1 when logging.file is set")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and environment
// overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SUDATA_ prefix
	v.SetEnvPrefix("SUDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("inputs.traits", "data/siralim-ultimate-compendium/Siralim Ultimate Compendium - Traits.csv")
	v.SetDefault("inputs.creatures", "data/siralim-ultimate-api/creatures.csv")
	v.SetDefault("inputs.perk_icons", "data/siralim-ultimate-api/perks.csv")
	v.SetDefault("inputs.godshop_locations", "data/misc/godshop_locations.csv")
	v.SetDefault("inputs.specializations", "data/steam-guide/specializations.csv")
	v.SetDefault("inputs.perks", "data/steam-guide/perks.csv")
	v.SetDefault("inputs.relics", "data/siralim-ultimate-compendium/Siralim Ultimate Compendium - Relics.csv")
	v.SetDefault("inputs.spells", "data/siralim-ultimate-compendium/Siralim Ultimate Compendium - Spells.csv")

	v.SetDefault("assets.sprite_dir", "public/suapi-battle-sprites")
	v.SetDefault("assets.perk_icon_dir", "data/siralim-ultimate-api/perk_icons")
	v.SetDefault("assets.missing_icon", "public/perk_icons/MISSING_ICON.png")
	v.SetDefault("assets.atlas_path", "public/perk_icons/perk_icons.png")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}
