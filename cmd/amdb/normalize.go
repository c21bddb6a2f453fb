package main

import (
	"context"
	"fmt"

	"github.com/albummap/amdb/internal/ionorm"
	"github.com/albummap/amdb/pkg/taxonomy"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize the raw snapshot",
		Long: `Convert the raw provider snapshot into canonical album records.

Reads albums-raw.json from the data directory and writes
albums-normalized.json. After this stage every record carries a mood
value, a region bucket and a canonical country (or the explicit
"unknown" placeholder). Malformed per-record data degrades to defaults
and is logged; it never aborts the batch.

Examples:
  amdb normalize
  amdb normalize --data-dir ./work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			tables, err := taxonomy.Load()
			if err != nil {
				return err
			}

			norm := ionorm.New(tables)
			if err := norm.Normalize(ctx, cfg); err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			successMsg := gnlib.FormatMessage(`
<em>✓ Snapshot normalized.</em>
Run <em>amdb enrich</em> to classify genres and resolve countries.
`, nil)
			fmt.Println(successMsg)
			return nil
		},
	}
	return cmd
}
