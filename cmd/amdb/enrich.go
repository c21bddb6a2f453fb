package main

import (
	"context"
	"fmt"

	"github.com/albummap/amdb/internal/iodiscogs"
	"github.com/albummap/amdb/internal/ioenrich"
	"github.com/albummap/amdb/internal/iolastfm"
	"github.com/albummap/amdb/pkg/source"
	"github.com/albummap/amdb/pkg/taxonomy"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

var (
	skipGenres bool
	skipGeo    bool
)

func getEnrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich genres and geography via external sources",
		Long: `Run the genre and geography enrichment stages.

Genre enrichment classifies records lacking a genre family: artist-level
tags from the primary source first, release-level fields from the
secondary source as fallback. Geography enrichment resolves countries
the same way (artist origin, then release country) and never overwrites
an already-known country.

Both stages consult a durable cache before any network call, so
re-running after an interruption repeats no lookups. The secondary
source runs only when enrich.secondary_token is configured.

Examples:
  amdb enrich
  amdb enrich --skip-geo
  amdb enrich --skip-genres`,
		RunE: runEnrich,
	}

	cmd.Flags().BoolVar(&skipGenres, "skip-genres", false,
		"skip the genre enrichment stage")
	cmd.Flags().BoolVar(&skipGeo, "skip-geo", false,
		"skip the geography enrichment stage")

	return cmd
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	if skipGenres && skipGeo {
		gn.Warn("Both stages skipped, nothing to do.")
		return nil
	}

	tables, err := taxonomy.Load()
	if err != nil {
		return err
	}

	var primary source.TagSource
	if cfg.Enrich.PrimaryKey == "" {
		gn.Warn(`Warning: enrich.primary_key is not configured.
The artist-tag source will be skipped; set <em>AMDB_ENRICH_PRIMARY_KEY</em>.`)
	} else {
		primary = iolastfm.New(cfg.Enrich.PrimaryKey, cfg.Enrich.PrimaryRPS)
	}

	var secondary source.ReleaseSource
	if cfg.Enrich.SecondaryToken == "" {
		fmt.Println("No release-database token configured, secondary source skipped.")
	} else {
		secondary = iodiscogs.New(
			cfg.Enrich.SecondaryToken, cfg.Enrich.SecondaryRPS,
		)
	}

	enricher := ioenrich.New(tables, primary, secondary)

	if !skipGenres {
		if err := enricher.EnrichGenres(ctx, cfg); err != nil {
			gnlib.PrintUserMessage(err)
			return err
		}
	}
	if !skipGeo {
		if err := enricher.EnrichGeography(ctx, cfg); err != nil {
			gnlib.PrintUserMessage(err)
			return err
		}
	}

	successMsg := gnlib.FormatMessage(`
<em>✓ Enrichment complete.</em>
Run <em>amdb validate</em> to check fill rates before shipping.
`, nil)
	fmt.Println(successMsg)
	return nil
}
