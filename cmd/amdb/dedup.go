package main

import (
	"context"
	"fmt"

	"github.com/albummap/amdb/internal/iodb"
	"github.com/albummap/amdb/internal/iodedup"
	"github.com/albummap/amdb/pkg/db"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

var dedupDryRun bool

func getDedupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Merge duplicate albums in the store",
		Long: `Find albums sharing the same normalized title, artist and release
year, elect the earliest-created one as canonical, re-point dependent
rows (links, awards, credits, releases, interactions, reviews,
commentary, coordinates) at it and delete the redundant album rows.

The whole merge runs inside a single transaction: on any failure the
store is left untouched.

Examples:
  amdb dedup --dry-run
  amdb dedup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			var op db.Operator = iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			res, err := iodedup.New(op).Dedup(ctx, cfg, dedupDryRun)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			if dedupDryRun {
				fmt.Printf("\nDry run: %s groups, %s albums would be removed.\n",
					humanize.Comma(int64(res.Groups)),
					humanize.Comma(int64(res.RecordsDeleted)),
				)
				return nil
			}

			successMsg := gnlib.FormatMessage(
				"\n<em>✓ Merged %d duplicate groups, removed %d albums.</em>",
				[]any{res.Groups, res.RecordsDeleted},
			)
			fmt.Println(successMsg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dedupDryRun, "dry-run", false,
		"list duplicate groups without changing the store")

	return cmd
}
