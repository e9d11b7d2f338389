package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and apply all migrations",
		Long: `Init creates the configured database and brings its schema to
the current version.

For the sqlite driver the database file and its parent directory are
created on first use. For the postgres driver the database itself
must already exist; init only evolves its schema.

Init is safe to re-run: an up-to-date database is left unchanged.

Examples:
  botdb init
  botdb init --config ./botdb.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			if cfg.Database.Driver == "sqlite" {
				dir := filepath.Dir(cfg.Database.Path)
				if dir != "." {
					if err := os.MkdirAll(dir, 0755); err != nil {
						gnlib.PrintUserMessage(err)
						return err
					}
				}
			}

			op, err := connectOperator(ctx)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			if err := runMigrations(ctx, op); err != nil {
				return err
			}

			gn.Info("\nDatabase is initialized!")
			gn.Info("\nNext steps:")
			gn.Info("  - Run 'botdb status' to inspect the schema state")
			gn.Info("  - Run 'botdb import' to load a Darwin Core Archive")
			return nil
		},
	}
}
