// Package main provides the build-data binary, which turns the planner's CSV
// datasets into the JSON files and perk icon sheet the front end loads.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/suplanner-data/internal/build"
	"github.com/cory-johannsen/suplanner-data/internal/config"
	"github.com/cory-johannsen/suplanner-data/internal/observability"
)

const defaultOutputDir = "src/data"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "build-data [output-dir]",
	Short: "Build planner data files",
	Long: `build-data reads the compendium, creature, specialization, relic and spell
CSV files and writes data.json, metadata.json, specializations.json, relics.json,
spells.json and a build manifest to the output directory (default src/data),
plus the perk icon sheet at the configured atlas path.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to configuration file (defaults and SUDATA_* env only when empty)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	start := time.Now()

	// .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("reading .env: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	outputDir := defaultOutputDir
	if len(args) == 1 {
		outputDir = args[0]
	}

	if err := build.New(cfg, logger).Run(outputDir); err != nil {
		logger.Fatal("data build failed", zap.Error(err))
	}

	logger.Info("build-data finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}
