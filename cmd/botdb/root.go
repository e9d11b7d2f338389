package main

import (
	"fmt"
	"log/slog"

	"github.com/gnames/botdb/internal/ioconfig"
	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/config"
	"github.com/gnames/botdb/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	gate    *capability.Gate
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "botdb",
		Short: "botdb manages a botanical taxonomy database",
		Long: `botdb is a CLI tool for managing the lifecycle of a botanical
taxonomy database: the Family/Genus/Species hierarchy, IUCN
conservation assessments, and Darwin Core Archive exchange.

Main commands:
  - init: create the database and apply all schema migrations
  - migrate: apply pending schema migrations
  - status: show migration and capability state
  - export: write the store into a Darwin Core Archive
  - import: read a Darwin Core Archive into the store

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (BOTDB_*)
  3. Config file (botdb.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.driver → BOTDB_DATABASE_DRIVER).

  Examples:
    BOTDB_DATABASE_DRIVER           sqlite or postgres
    BOTDB_DATABASE_PATH             SQLite database file
    BOTDB_DATABASE_HOST             PostgreSQL host
    BOTDB_DATABASE_PORT             PostgreSQL port
    BOTDB_LOG_LEVEL                 Log level (debug/info/warn/error)

  See 'go doc github.com/gnames/botdb/pkg/config' for the complete list.`,
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", botdb.Version, botdb.Build),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: bootstrap,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/botdb/botdb.yaml)")

	// Remove the automatic "botdb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for botdb")

	rootCmd.AddCommand(getInitCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getStatusCmd())
	rootCmd.AddCommand(getExportCmd())
	rootCmd.AddCommand(getImportCmd())

	return rootCmd
}

// bootstrap generates the config file on first run, loads the
// configuration and resolves the capability gate. Every subcommand
// runs after it.
func bootstrap(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		exists, err := ioconfig.ConfigFileExists()
		if err != nil {
			return fmt.Errorf("cannot check config file: %w", err)
		}
		if !exists {
			generatedPath, err := ioconfig.GenerateDefaultConfig()
			if err != nil {
				// Defaults still work without a file.
				fmt.Printf(
					"Warning: could not generate config file: %v\n", err)
			} else {
				fmt.Printf(
					"Generated default config at: %s\n", generatedPath)
			}
		}
	}

	result, err := ioconfig.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %w", err)
	}
	cfg = result.Config

	slog.SetDefault(logger.New(&cfg.Log))

	gate, err = capability.New(cfg.Capabilities)
	if err != nil {
		return err
	}

	switch result.Source {
	case "file":
		slog.Debug("Configuration loaded", "config_file", result.SourcePath)
	case "defaults+env":
		slog.Debug("Using built-in defaults with environment overrides")
	default:
		slog.Debug("Using built-in defaults, no config file")
	}
	return nil
}

// getConfig returns the loaded configuration for subcommands.
func getConfig() *config.Config {
	return cfg
}

// getGate returns the resolved capability gate for subcommands.
func getGate() *capability.Gate {
	return gate
}
