package main

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Read a Darwin Core Archive into the store",
		Long: `Import reads a Darwin Core Archive and applies its taxon and
occurrence records to the store.

The whole archive is decoded and cross-checked before any write: a
record referencing an unknown taxon rejects the import and leaves
the store untouched. Records that arrive without identifiers get
stable ids derived from their names, so re-importing the same
archive never duplicates entities.

Requires the darwin-core capability.

Examples:
  botdb import flora.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			op, err := connectOperator(ctx)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			codec := newCodec(op)
			start := time.Now()
			sum, err := codec.Import(ctx, args[0])
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			gn.Info("Created <em>%s</em> families, <em>%s</em> genera, "+
				"<em>%s</em> species.",
				humanize.Comma(int64(sum.FamiliesCreated)),
				humanize.Comma(int64(sum.GeneraCreated)),
				humanize.Comma(int64(sum.SpeciesCreated)))
			gn.Info("Updated <em>%s</em> species, added <em>%s</em> "+
				"specimens and <em>%s</em> assessments.",
				humanize.Comma(int64(sum.SpeciesUpdated)),
				humanize.Comma(int64(sum.Specimens)),
				humanize.Comma(int64(sum.Assessments)))
			gn.Info("Import took %s.",
				gnfmt.TimeString(time.Since(start).Seconds()))
			return nil
		},
	}
}
