package main

import (
	"context"

	"github.com/albummap/amdb/internal/iovalidate"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the enriched snapshot",
		Long: `Compute fill-rate and distribution statistics over the enriched
snapshot and write a JSON validation report next to it.

The command exits non-zero when a critical invariant is violated
(any record without a region bucket). Lower-than-threshold country or
genre fill rates produce warnings with recommendations but do not fail
the run; thresholds live under "validate:" in the config file.

Examples:
  amdb validate
  amdb validate --data-dir ./work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			rep, err := iovalidate.New().Validate(ctx, cfg)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			iovalidate.PrintSummary(rep)

			if rep.Critical {
				err := iovalidate.CriticalError()
				gnlib.PrintUserMessage(err)
				return err
			}
			return nil
		},
	}
	return cmd
}
