package main

import (
	"context"
	"fmt"

	"github.com/albummap/amdb/internal/iodb"
	"github.com/albummap/amdb/internal/ioschema"
	"github.com/albummap/amdb/pkg/db"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

func getMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long: `Update the album store schema to the latest version.

Migration is idempotent: it adds missing tables, columns and indexes
and never drops data. It is safe to run after every amdb upgrade.

Examples:
  amdb migrate
  amdb migrate --config custom.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			var op db.Operator = iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			defer op.Close()

			hasTables, err := op.HasTables(ctx)
			if err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}
			if !hasTables {
				gn.Warn(`Warning: Database appears to be empty.
Run <em>amdb create</em> first to create the initial schema.`)
			}

			fmt.Println("Applying schema migrations...")
			sm := ioschema.NewManager(op)
			if err := sm.Migrate(ctx); err != nil {
				gnlib.PrintUserMessage(err)
				return err
			}

			successMsg := gnlib.FormatMessage(
				"\n<em>✓ Schema is up to date.</em>", nil,
			)
			fmt.Println(successMsg)
			return nil
		},
	}
	return cmd
}
