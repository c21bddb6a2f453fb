package main

import (
	"fmt"
	"os"

	amdb "github.com/albummap/amdb/pkg"
	"github.com/albummap/amdb/internal/ioconfig"
	"github.com/albummap/amdb/internal/iofs"
	"github.com/albummap/amdb/internal/iologger"
	"github.com/albummap/amdb/pkg/config"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "amdb",
		Short: "amdb manages the AlbumMap dataset lifecycle",
		Long: `amdb is a CLI tool for managing the complete lifecycle of the AlbumMap
dataset: store schema creation, snapshot normalization, external
enrichment, validation, duplicate reconciliation, and spatial
projection.

Pipeline stages (each reads the previous stage's snapshot):
  - create:    create the PostgreSQL store schema
  - migrate:   apply schema migrations
  - normalize: fill mood, region bucket and canonical country
  - enrich:    genre and geography enrichment via external sources
  - validate:  fill-rate and distribution report, critical gate
  - dedup:     merge duplicate albums in the store
  - project:   compute deterministic map positions and persist them

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (AMDB_*)
  3. Config file (amdb.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → AMDB_DATABASE_HOST).

  Examples:
    AMDB_DATABASE_HOST              PostgreSQL host
    AMDB_DATABASE_PASSWORD          PostgreSQL password
    AMDB_ENRICH_PRIMARY_KEY         artist-tag source API key
    AMDB_ENRICH_SECONDARY_TOKEN     release-database token
    AMDB_LOG_LEVEL                  log level (debug/info/warn/error)

  See 'go doc github.com/albummap/amdb/pkg/config' for the complete list.`,
		Version: amdb.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("cannot determine home directory: %w", err)
			}

			if err := iofs.EnsureDirs(homeDir); err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			if cfgFile == "" {
				// Auto-generate the default config on first run.
				if err := iofs.EnsureConfigFile(homeDir); err != nil {
					fmt.Printf("Warning: could not generate config file: %v\n", err)
				}
			}

			result, err := ioconfig.Load(cfgFile, homeDir)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
				cfg.Update([]config.Option{config.OptDataDir(dataDir)})
			}

			if err := iologger.Init(config.LogDir(homeDir), cfg.Log); err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			switch result.Source {
			case "file":
				fmt.Printf("Using config from: %s\n", result.SourcePath)
			case "defaults+env":
				fmt.Println("Using built-in defaults with environment variable overrides")
			case "defaults":
				fmt.Println("Using built-in defaults (no config file)")
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./amdb.yaml or ~/.config/amdb/amdb.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "",
		"directory for pipeline snapshots and reports")

	// Consistent with other gn-style projects.
	rootCmd.Flags().BoolP("version", "V", false, "version for amdb")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getNormalizeCmd())
	rootCmd.AddCommand(getEnrichCmd())
	rootCmd.AddCommand(getValidateCmd())
	rootCmd.AddCommand(getDedupCmd())
	rootCmd.AddCommand(getProjectCmd())

	return rootCmd
}

// getConfig returns the loaded configuration for subcommands.
func getConfig() *config.Config {
	return cfg
}
