package main

import (
	"context"
	"fmt"

	"github.com/albummap/amdb/internal/iodb"
	"github.com/albummap/amdb/internal/ioproject"
	"github.com/albummap/amdb/pkg/db"
	"github.com/albummap/amdb/pkg/taxonomy"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Compute map positions and persist them",
		Long: `Compute the deterministic (x, y) canvas position for every record of
the enriched snapshot and persist albums plus coordinates to the store.

The layout partitions the canvas into horizontal region bands sized by
member count; within a band the vertical position derives from a stable
hash of the record id, nudged by mood and country. The horizontal axis
is the release-year timeline. Positions are bit-for-bit reproducible
for the same snapshot and configuration.

Examples:
  amdb project
  amdb project --data-dir ./work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			tables, err := taxonomy.Load()
			if err != nil {
				return err
			}

			var op db.Operator = iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			res, err := ioproject.New(op, tables).Project(ctx, cfg)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			fmt.Printf("Projected %s records into %d region bands.\n",
				humanize.Comma(int64(res.Records)), res.Bands)
			successMsg := gnlib.FormatMessage(
				"\n<em>✓ Upserted %d albums and %d coordinates.</em>",
				[]any{res.Albums, res.Coordinates},
			)
			fmt.Println(successMsg)
			return nil
		},
	}
	return cmd
}
