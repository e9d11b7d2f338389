package main

import (
	"context"
	"time"

	"github.com/gnames/botdb/internal/iodb"
	"github.com/gnames/botdb/internal/iomigrate"
	"github.com/gnames/botdb/pkg/db"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Migrate verifies the migration ledger against the known
migration sequence and applies every pending migration in order.

Each migration runs in its own transaction. A checksum mismatch
between the ledger and the built-in definitions means the database
was changed outside botdb and stops the run before anything is
touched. Running with everything applied is a no-op.

Examples:
  botdb migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			op, err := connectOperator(ctx)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			return runMigrations(ctx, op)
		},
	}
}

// connectOperator opens the configured backend.
func connectOperator(ctx context.Context) (db.Operator, error) {
	cfg := getConfig()
	op, err := iodb.New(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "postgres" {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	} else {
		gn.Info("Connected to database: <em>%s</em>", cfg.Database.Path)
	}
	return op, nil
}

// runMigrations is shared by the init and migrate commands.
func runMigrations(ctx context.Context, op db.Operator) error {
	runner := iomigrate.New(op, getGate())

	gn.Info("Migrating schema to the current version...")
	start := time.Now()
	if err := runner.Run(ctx); err != nil {
		gnlib.PrintUserMessage(err)
		return err
	}

	gn.Info("Schema is up to date, took <em>%s</em>.",
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}
