// Package ionorm implements the normalization stage: provider-native raw
// records become canonical AlbumRecords with every structurally required
// field filled. The stage is pure with respect to external state; it
// performs no network I/O, reads one snapshot and writes the next.
package ionorm

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/albummap/amdb/internal/iosnapshot"
	"github.com/albummap/amdb/pkg/config"
	"github.com/albummap/amdb/pkg/pipeline"
	"github.com/albummap/amdb/pkg/record"
	"github.com/albummap/amdb/pkg/taxonomy"
	"github.com/gnames/gnfmt"
)

// maxGenreTags bounds the number of secondary free-text tags kept on a
// record.
const maxGenreTags = 3

type ionorm struct {
	tables *taxonomy.Tables
}

// New returns a Normalizer backed by the given taxonomy tables.
func New(tables *taxonomy.Tables) pipeline.Normalizer {
	return &ionorm{tables: tables}
}

// rawSnapshot is the collector output format: provider-native records
// only, no stats.
type rawSnapshot struct {
	Records []*record.RawRecord `json:"records"`
}

// Normalize reads the raw snapshot, converts every raw record and writes
// the normalized snapshot. Malformed per-record data degrades to
// defaults with a log line; only missing or empty input aborts the run.
func (n *ionorm) Normalize(ctx context.Context, cfg *config.Config) error {
	dataDir := cfg.ResolveDataDir()
	rawPath := iosnapshot.Path(dataDir, iosnapshot.StageRaw)

	raws, err := readRaw(rawPath)
	if err != nil {
		return err
	}
	slog.Info("Normalizing raw records", "records", len(raws), "path", rawPath)

	snap := &record.Snapshot{
		Records: make([]*record.AlbumRecord, 0, len(raws)),
	}
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap.Records = append(snap.Records, n.normalizeOne(raw))
	}

	if dupes := iosnapshot.CheckIDs(snap); len(dupes) > 0 {
		slog.Warn("Duplicate record ids in raw snapshot",
			"count", len(dupes), "first", dupes[0])
	}

	outPath := iosnapshot.Path(dataDir, iosnapshot.StageNormalized)
	if err := iosnapshot.Write(outPath, iosnapshot.StageNormalized, snap); err != nil {
		return err
	}
	slog.Info("Wrote normalized snapshot",
		"path", outPath,
		"total", snap.Stats.Total,
		"withGenre", snap.Stats.WithGenre,
		"withCountry", snap.Stats.WithCountry,
		"withYear", snap.Stats.WithYear,
	)
	return nil
}

// normalizeOne converts a single raw record. It never fails: anything it
// cannot interpret degrades to a default and is logged.
func (n *ionorm) normalizeOne(raw *record.RawRecord) *record.AlbumRecord {
	rec := &record.AlbumRecord{
		ID:         raw.RecordID(),
		Title:      strings.TrimSpace(raw.Title),
		Artist:     strings.TrimSpace(raw.Artist),
		TrackCount: raw.TrackCount,
		ArtworkURL: raw.ArtworkURL,
		Popularity: raw.Popularity,
	}

	rec.ReleaseDate = strings.TrimSpace(raw.Released)
	year, _ := record.ParseReleaseDate(rec.ReleaseDate)
	rec.Year = year
	if rec.ReleaseDate != "" && year == nil {
		slog.Warn("Cannot parse release date",
			"id", rec.ID, "released", rec.ReleaseDate)
	}

	n.fillGenre(rec, raw)
	n.fillGeography(rec, raw)

	tags := append(append([]string{}, raw.Genres...), raw.Tags...)
	rec.SetMood(n.tables.MoodForTags(tags, rec.Year))
	return rec
}

// fillGenre carries provider-native genre signal onto the record and,
// when the signal maps into the family enum, classifies the record right
// away so the enricher skips it.
func (n *ionorm) fillGenre(rec *record.AlbumRecord, raw *record.RawRecord) {
	if len(raw.Genres) > 0 {
		rec.Genre = raw.Genres[0]
	}
	var tags []string
	if len(raw.Genres) > 1 {
		tags = append(tags, raw.Genres[1:]...)
	}
	tags = append(tags, raw.Tags...)
	if len(tags) > maxGenreTags {
		tags = tags[:maxGenreTags]
	}
	rec.GenreTags = tags

	all := append(append([]string{}, raw.Genres...), raw.Tags...)
	family, ok := n.tables.FamilyForTags(all)
	if ok {
		rec.GenreFamily = family
		rec.GenreConfidence = 0.9
		rec.GenreSource = raw.Provider
		return
	}
	rec.GenreFamily = record.FamilyUnknown
	rec.GenreConfidence = 0
}

// fillGeography resolves any trustworthy raw geography signal into a
// canonical country and a region bucket. Without a signal the country
// stays the explicit placeholder and the region falls to the default
// bucket, so the always-has-region invariant holds before enrichment.
func (n *ionorm) fillGeography(rec *record.AlbumRecord, raw *record.RawRecord) {
	if raw.Country != "" {
		if c, ok := n.tables.ResolveCountry(raw.Country); ok {
			rec.SetCountry(c.Name, c.Name, raw.Provider, "release-country")
			rec.Region = record.Region(c.Region)
			return
		}
		slog.Debug("Unknown raw country", "id", rec.ID, "country", raw.Country)
	}

	rec.Country = record.CountryUnknown
	if region, ok := n.tables.RegionForLocale(raw.Locale); ok {
		rec.Region = region
		return
	}
	rec.Region = record.RegionDefault
}

func readRaw(path string) ([]*record.RawRecord, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, iosnapshot.ReadError(path, err)
	}
	var raw rawSnapshot
	enc := gnfmt.GNjson{}
	if err := enc.Decode(bs, &raw); err != nil {
		return nil, iosnapshot.ReadError(path, err)
	}
	if len(raw.Records) == 0 {
		return nil, iosnapshot.EmptyError(path)
	}
	return raw.Records, nil
}
