package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/botdb/internal/ioarchive"
	"github.com/gnames/botdb/internal/ioconserve"
	"github.com/gnames/botdb/internal/iostore"
	"github.com/gnames/botdb/pkg/botdb"
	"github.com/gnames/botdb/pkg/capability"
	"github.com/gnames/botdb/pkg/db"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <archive.zip>",
		Short: "Write the store into a Darwin Core Archive",
		Long: `Export packages the whole store into a Darwin Core Archive:
a taxon core, an occurrence extension for specimens, a meta.xml
descriptor and an eml.xml dataset document.

All cross-references are verified first; a broken reference rejects
the export and no file is created. When the conservation capability
is enabled, species rows carry their current IUCN category in the
threatStatus column.

Requires the darwin-core capability.

Examples:
  botdb export flora.zip`,
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
			sum, err := codec.Export(ctx, args[0])
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			gn.Info("Exported <em>%s</em> taxa and <em>%s</em> "+
				"occurrences to <em>%s</em>, took %s.",
				humanize.Comma(int64(sum.Taxa)),
				humanize.Comma(int64(sum.Occurrences)),
				sum.Path,
				gnfmt.TimeString(time.Since(start).Seconds()))

			msg := gnlib.FormatMessage(`
<em>✓ The archive is ready for publication.</em>
Any Darwin Core aware aggregator can ingest it directly.
`, nil)
			fmt.Println(msg)
			return nil
		},
	}
}

// newCodec wires the archive codec with the store and, when the
// capability is on, the conservation tracker.
func newCodec(op db.Operator) botdb.ArchiveCodec {
	cfg := getConfig()
	gate := getGate()
	store := iostore.New(op, gate, cfg.JobsNumber)

	var tracker botdb.ConservationTracker
	if gate.Enabled(capability.Conservation) {
		tracker = ioconserve.New(op, gate)
	}
	return ioarchive.New(store, tracker, gate, cfg.JobsNumber)
}
