package iovalidate

import (
	"fmt"

	"github.com/albummap/amdb/pkg/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
)

// PrintSummary writes the human-readable report to stdout. The JSON
// artifact is the machine contract; this is for the operator running
// the stage by hand.
func PrintSummary(rep *pipeline.Report) {
	fmt.Println(gnlib.FormatMessage(
		"\n<em>Validation summary</em>", nil,
	))
	fmt.Printf("Records: %s", humanize.Comma(int64(rep.Total)))
	if rep.DuplicateIDs > 0 {
		fmt.Printf(" (%d duplicate ids)", rep.DuplicateIDs)
	}
	fmt.Println()

	fmt.Println("\nField fill rates:")
	for _, f := range rep.Fields {
		fmt.Printf("  %-12s %10s / %s  (%.1f%%)\n",
			f.Field,
			humanize.Comma(int64(f.Filled)),
			humanize.Comma(int64(f.Total)),
			f.Percent,
		)
	}

	for _, dist := range []string{"genreFamily", "region", "country"} {
		entries := rep.Distributions[dist]
		if len(entries) == 0 {
			continue
		}
		fmt.Printf("\nTop %s:\n", dist)
		for _, e := range entries {
			fmt.Printf("  %-24s %s\n", e.Value, humanize.Comma(int64(e.Count)))
		}
	}

	if len(rep.UnclassifiedSample) > 0 {
		fmt.Printf("\nUnclassified sample (%d shown):\n",
			len(rep.UnclassifiedSample))
		for _, id := range rep.UnclassifiedSample {
			fmt.Printf("  %s\n", id)
		}
	}

	for _, w := range rep.Warnings {
		gn.Warn("\n" + w.Message + "\n  recommendation: " + w.Recommendation)
	}

	if rep.Critical {
		fmt.Println(gnlib.FormatMessage(
			"\n<warn>✗ Critical invariant violated, see warnings above.</warn>",
			nil,
		))
	} else {
		fmt.Println(gnlib.FormatMessage(
			"\n<em>✓ Snapshot passed validation.</em>", nil,
		))
	}
}
