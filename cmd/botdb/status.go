package main

import (
	"context"
	"fmt"

	"github.com/gnames/botdb/internal/iomigrate"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration and capability state",
		Long: `Status lists every known schema migration with its applied
state, and the capabilities enabled by the current configuration.

Examples:
  botdb status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			op, err := connectOperator(ctx)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			runner := iomigrate.New(op, getGate())
			statuses, err := runner.Status(ctx)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			fmt.Println("Migrations:")
			for _, st := range statuses {
				applied := st.AppliedAt
				if applied == "" {
					applied = "-"
				}
				fmt.Printf("  %3d  %-28s %-10s %s\n",
					st.Migration.Version, st.Migration.Name,
					st.State.String(), applied)
			}

			fmt.Println("\nCapabilities:")
			for _, c := range getGate().List() {
				fmt.Printf("  %s\n", c)
			}
			return nil
		},
	}
}
