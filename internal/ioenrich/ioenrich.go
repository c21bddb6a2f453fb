// Package ioenrich implements the two enrichment stages: genre
// classification and geography resolution. Both follow the same shape:
// skip records that already carry the field, consult the durable cache
// before any network call, query the primary source then the secondary
// one, and cache each tier's outcome write-through so an interrupted
// run never repeats a lookup. A tier that was unavailable (no
// credential configured) leaves no cache entry, so it is consulted the
// first time it becomes available.
package ioenrich

import (
	"context"
	"os"

	"github.com/albummap/amdb/internal/iosnapshot"
	"github.com/albummap/amdb/pkg/cache"
	"github.com/albummap/amdb/pkg/pipeline"
	"github.com/albummap/amdb/pkg/record"
	"github.com/albummap/amdb/pkg/source"
	"github.com/albummap/amdb/pkg/taxonomy"
)

// Source name tags stored on records so a snapshot shows which tier
// supplied each classification.
const (
	sourcePrimary   = "lastfm"
	sourceSecondary = "discogs"
	sourceUnknown   = "unknown"
)

// Classification confidence by tier. Artist-level tags from the primary
// source are considered more trustworthy than release-database fields.
const (
	confidencePrimary   = 0.9
	confidenceSecondary = 0.7
)

type ioenrich struct {
	tables *taxonomy.Tables

	// primary may be nil in tests; secondary is nil whenever no
	// credential is configured.
	primary   source.TagSource
	secondary source.ReleaseSource
}

// New returns an Enricher using the given sources. Pass a nil secondary
// to skip the release-database tier.
func New(
	tables *taxonomy.Tables,
	primary source.TagSource,
	secondary source.ReleaseSource,
) pipeline.Enricher {
	return &ioenrich{tables: tables, primary: primary, secondary: secondary}
}

// geoInput returns the snapshot path the geography stage reads: the
// genre-stage output when it exists, otherwise the normalized snapshot,
// so `enrich --skip-genres` still works.
func geoInput(dataDir string) string {
	path := iosnapshot.Path(dataDir, iosnapshot.StageGenres)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return iosnapshot.Path(dataDir, iosnapshot.StageNormalized)
}

// mapFamily maps free-text tags through the taxonomy tables and returns
// the family plus whether any rule matched.
func (e *ioenrich) mapFamily(tags []string) (record.GenreFamily, bool) {
	if len(tags) == 0 {
		return record.FamilyUnknown, false
	}
	return e.tables.FamilyForTags(tags)
}

// releaseKey keys release-level outcomes by artist and title, so one
// album's secondary result is never replayed onto another album by the
// same artist.
func releaseKey(artist, title string) string {
	return record.NormKey(artist) + "|" + record.NormKey(title)
}

// tierStats counts cache hits and fetches across both tiers of a stage.
type tierStats struct {
	hits    int
	fetched int
}

// lookup returns the cached outcome for one tier, fetching and storing
// it write-through when the cache has none. A disabled tier (nil
// source) returns nil without writing anything: "never looked up" is
// the absence of an entry, distinct from a stored confirmed miss.
func (e *ioenrich) lookup(
	ctx context.Context,
	store cache.Store,
	key string,
	enabled bool,
	st *tierStats,
	fetch func(context.Context) (*cache.Entry, error),
) (*cache.Entry, error) {
	entry, err := store.Get(key)
	if err != nil {
		return nil, CacheReadError(key, err)
	}
	if entry != nil {
		st.hits++
		return entry, nil
	}
	if !enabled {
		return nil, nil
	}
	entry, err = fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Put(key, entry); err != nil {
		return nil, CacheWriteError(key, err)
	}
	st.fetched++
	return entry, nil
}
