// Package iovalidate implements the validation stage: a read-only pass
// over the enriched snapshot producing fill-rate and distribution
// statistics, warnings with recommendations, and the critical flag that
// gates downstream consumers.
package iovalidate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/albummap/amdb/internal/iosnapshot"
	"github.com/albummap/amdb/pkg/config"
	"github.com/albummap/amdb/pkg/pipeline"
	"github.com/albummap/amdb/pkg/record"
	"github.com/gnames/gnfmt"
)

// sampleLimit bounds the unclassified-record sample in the report.
const sampleLimit = 20

// ReportFileName is the JSON artifact written next to the snapshots.
const ReportFileName = "validation-report.json"

type iovalidate struct{}

// New returns the snapshot Validator.
func New() pipeline.Validator {
	return &iovalidate{}
}

// Validate builds the report over the latest enriched snapshot and
// writes its JSON artifact. The returned error covers operational
// failures only; report.Critical carries the pass/fail signal.
func (v *iovalidate) Validate(
	ctx context.Context,
	cfg *config.Config,
) (*pipeline.Report, error) {
	dataDir := cfg.ResolveDataDir()
	inPath := latestSnapshot(dataDir)
	snap, err := iosnapshot.Must(inPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Validating snapshot", "path", inPath, "records", len(snap.Records))

	rep := buildReport(snap, cfg.Validate)

	outPath := filepath.Join(dataDir, ReportFileName)
	if err := writeReport(outPath, rep); err != nil {
		return nil, err
	}
	slog.Info("Wrote validation report", "path", outPath, "critical", rep.Critical)
	return rep, nil
}

// latestSnapshot returns the most advanced snapshot present, so
// validation works after any completed stage.
func latestSnapshot(dataDir string) string {
	for _, stage := range []string{
		iosnapshot.StageGeo,
		iosnapshot.StageGenres,
		iosnapshot.StageNormalized,
	} {
		path := iosnapshot.Path(dataDir, stage)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return iosnapshot.Path(dataDir, iosnapshot.StageNormalized)
}

// buildReport computes every report section from the snapshot. Pure,
// also used directly by tests.
func buildReport(snap *record.Snapshot, vc config.ValidateConfig) *pipeline.Report {
	recs := snap.Records
	total := len(recs)
	rep := &pipeline.Report{
		GeneratedAt:   time.Now().UTC(),
		Total:         total,
		DuplicateIDs:  len(iosnapshot.CheckIDs(snap)),
		Distributions: make(map[string][]pipeline.DistEntry, 3),
	}

	counts := map[string]int{}
	families := map[string]int{}
	regions := map[string]int{}
	countries := map[string]int{}
	for _, rec := range recs {
		if rec.Title != "" {
			counts["title"]++
		}
		if rec.Artist != "" {
			counts["artist"]++
		}
		if rec.Year != nil {
			counts["year"]++
		}
		if rec.HasGenre() {
			counts["genreFamily"]++
			families[string(rec.GenreFamily)]++
		} else if len(rep.UnclassifiedSample) < sampleLimit {
			rep.UnclassifiedSample = append(rep.UnclassifiedSample, rec.ID)
		}
		if rec.Region.IsValid() {
			counts["region"]++
			regions[string(rec.Region)]++
		}
		if rec.HasCountry() {
			counts["country"]++
			countries[rec.Country]++
		}
		if rec.Mood >= 0 && rec.Mood <= 1 {
			counts["mood"]++
		}
		if rec.ArtworkURL != "" {
			counts["artwork"]++
		}
		if rec.Popularity > 0 {
			counts["popularity"]++
		}
	}

	for _, field := range []string{
		"title", "artist", "year", "genreFamily", "region",
		"country", "mood", "artwork", "popularity",
	} {
		rep.Fields = append(rep.Fields, fill(field, counts[field], total))
	}

	rep.Distributions["genreFamily"] = topN(families, vc.TopN)
	rep.Distributions["region"] = topN(regions, vc.TopN)
	rep.Distributions["country"] = topN(countries, vc.TopN)

	addWarnings(rep, counts, total, vc)
	return rep
}

func fill(field string, filled, total int) pipeline.FieldFill {
	f := pipeline.FieldFill{Field: field, Filled: filled, Total: total}
	if total > 0 {
		f.Percent = 100 * float64(filled) / float64(total)
	}
	return f
}

// topN returns the n most frequent values, ties broken alphabetically so
// the report is stable across runs.
func topN(counts map[string]int, n int) []pipeline.DistEntry {
	entries := make([]pipeline.DistEntry, 0, len(counts))
	for v, c := range counts {
		entries = append(entries, pipeline.DistEntry{Value: v, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// addWarnings applies the invariant checks. Region fill below 100% is
// the sole critical condition; the rest are configurable advisories.
func addWarnings(
	rep *pipeline.Report,
	counts map[string]int,
	total int,
	vc config.ValidateConfig,
) {
	if total == 0 {
		return
	}
	if counts["region"] < total {
		rep.Critical = true
		rep.Warnings = append(rep.Warnings, pipeline.Warning{
			Message: fmt.Sprintf(
				"region bucket fill is %d/%d; every record must carry one",
				counts["region"], total),
			Recommendation: "re-run the normalize stage; it assigns a " +
				"default bucket to records without a geography signal",
			Critical: true,
		})
	}
	if frac := float64(counts["country"]) / float64(total); frac < vc.MinCountryFill {
		rep.Warnings = append(rep.Warnings, pipeline.Warning{
			Message: fmt.Sprintf(
				"country fill is %.1f%%, below the %.0f%% threshold",
				100*frac, 100*vc.MinCountryFill),
			Recommendation: "configure the release-database token so the " +
				"secondary geography tier runs, then re-run enrich",
		})
	}
	if frac := float64(counts["genreFamily"]) / float64(total); frac < vc.MinGenreFill {
		rep.Warnings = append(rep.Warnings, pipeline.Warning{
			Message: fmt.Sprintf(
				"genre family fill is %.1f%%, below the %.0f%% threshold",
				100*frac, 100*vc.MinGenreFill),
			Recommendation: "check the primary source API key and extend " +
				"the genre mapping rules for frequent unmapped tags",
		})
	}
	if rep.DuplicateIDs > 0 {
		rep.Warnings = append(rep.Warnings, pipeline.Warning{
			Message: fmt.Sprintf(
				"%d record ids appear more than once", rep.DuplicateIDs),
			Recommendation: "inspect the raw collectors; ids must be " +
				"unique within a snapshot",
		})
	}
}

func writeReport(path string, rep *pipeline.Report) error {
	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(rep)
	if err != nil {
		return ReportWriteError(path, err)
	}
	if err := os.WriteFile(path, bs, 0644); err != nil {
		return ReportWriteError(path, err)
	}
	return nil
}
