package ioenrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/albummap/amdb/internal/iocache"
	"github.com/albummap/amdb/internal/iosnapshot"
	"github.com/albummap/amdb/pkg/cache"
	"github.com/albummap/amdb/pkg/config"
	"github.com/albummap/amdb/pkg/record"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
)

// EnrichGenres classifies every record lacking a usable genre family.
// Artist-level tags are cached per artist, release-level fields per
// artist+title; each tier's outcome is written through immediately, so
// an interrupted run resumes without repeating network calls.
func (e *ioenrich) EnrichGenres(ctx context.Context, cfg *config.Config) error {
	dataDir := cfg.ResolveDataDir()
	inPath := iosnapshot.Path(dataDir, iosnapshot.StageNormalized)
	snap, err := iosnapshot.Must(inPath)
	if err != nil {
		return err
	}

	store, err := iocache.Open(cfg, iocache.KindGenres)
	if err != nil {
		return CacheOpenError(iocache.KindGenres, err)
	}
	defer store.Close()

	slog.Info("Enriching genres", "records", len(snap.Records))
	bar := pb.Full.Start(len(snap.Records))
	bar.Set("prefix", "genres ")

	st := &tierStats{}
	var skipped, classified, unresolved int
	for _, rec := range snap.Records {
		bar.Increment()
		if err := ctx.Err(); err != nil {
			bar.Finish()
			return err
		}
		if rec.HasGenre() {
			skipped++
			continue
		}
		aKey := record.NormKey(rec.Artist)
		if aKey == "" {
			rec.GenreSource = sourceUnknown
			unresolved++
			continue
		}

		entry, err := e.lookup(ctx, store, aKey, e.primary != nil, st,
			func(ctx context.Context) (*cache.Entry, error) {
				return e.fetchTags(ctx, cfg, rec.Artist)
			})
		if err != nil {
			bar.Finish()
			return err
		}
		if e.applyTags(rec, entry) {
			classified++
			continue
		}

		entry, err = e.lookup(ctx, store, releaseKey(rec.Artist, rec.Title),
			e.secondary != nil, st,
			func(ctx context.Context) (*cache.Entry, error) {
				return e.fetchReleaseGenres(ctx, cfg, rec)
			})
		if err != nil {
			bar.Finish()
			return err
		}
		if e.applyReleaseGenres(rec, entry) {
			classified++
			continue
		}

		rec.GenreFamily = record.FamilyUnknown
		rec.GenreConfidence = 0
		rec.GenreSource = sourceUnknown
		unresolved++
	}
	bar.Finish()

	outPath := iosnapshot.Path(dataDir, iosnapshot.StageGenres)
	if err := iosnapshot.Write(outPath, iosnapshot.StageGenres, snap); err != nil {
		return err
	}
	slog.Info("Wrote genre snapshot",
		"path", outPath,
		"skipped", humanize.Comma(int64(skipped)),
		"cacheHits", humanize.Comma(int64(st.hits)),
		"fetched", humanize.Comma(int64(st.fetched)),
		"classified", humanize.Comma(int64(classified)),
		"unresolved", humanize.Comma(int64(unresolved)),
	)
	return nil
}

// fetchTags consults the primary tier for one artist. A source miss is
// stored as a confirmed not-found entry; the returned error is non-nil
// only on context cancellation.
func (e *ioenrich) fetchTags(
	ctx context.Context,
	cfg *config.Config,
	artist string,
) (*cache.Entry, error) {
	entry := &cache.Entry{Source: sourcePrimary, FetchedAt: time.Now().UTC()}
	tags, err := fetchWithRetry(ctx, cfg.Enrich.MaxRetries, "artist tags",
		func(ctx context.Context) ([]string, error) {
			return e.primary.ArtistTags(ctx, artist)
		})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		entry.NotFound = true
		return entry, nil
	}
	entry.Tags = tags
	return entry, nil
}

// fetchReleaseGenres consults the secondary tier for one release.
func (e *ioenrich) fetchReleaseGenres(
	ctx context.Context,
	cfg *config.Config,
	rec *record.AlbumRecord,
) (*cache.Entry, error) {
	entry := &cache.Entry{Source: sourceSecondary, FetchedAt: time.Now().UTC()}
	fields, err := fetchWithRetry(ctx, cfg.Enrich.MaxRetries, "release genres",
		func(ctx context.Context) ([]string, error) {
			return e.secondary.ReleaseGenres(ctx, rec.Artist, rec.Title)
		})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		entry.NotFound = true
		return entry, nil
	}
	entry.Genres = fields
	return entry, nil
}

// applyTags writes a cached primary-tier outcome onto the record.
// Returns true when the tags map to a family; tags that map to nothing
// leave the record untouched so the secondary tier still runs.
func (e *ioenrich) applyTags(rec *record.AlbumRecord, entry *cache.Entry) bool {
	if entry == nil || entry.NotFound {
		return false
	}
	family, ok := e.mapFamily(entry.Tags)
	if !ok {
		return false
	}
	rec.GenreFamily = family
	rec.GenreConfidence = confidencePrimary
	rec.GenreSource = sourcePrimary
	if rec.Genre == "" {
		rec.Genre = entry.Tags[0]
	}
	if len(rec.GenreTags) == 0 {
		rec.GenreTags = capTags(entry.Tags)
	}
	return true
}

// applyReleaseGenres writes a cached secondary-tier outcome onto the
// record.
func (e *ioenrich) applyReleaseGenres(
	rec *record.AlbumRecord, entry *cache.Entry,
) bool {
	if entry == nil || entry.NotFound {
		return false
	}
	family, ok := e.mapFamily(entry.Genres)
	if !ok {
		return false
	}
	rec.GenreFamily = family
	rec.GenreConfidence = confidenceSecondary
	rec.GenreSource = sourceSecondary
	if rec.Genre == "" {
		rec.Genre = entry.Genres[0]
	}
	if len(rec.GenreTags) == 0 {
		rec.GenreTags = capTags(entry.Genres)
	}
	return true
}

// capTags keeps at most three secondary tags.
func capTags(tags []string) []string {
	if len(tags) > 3 {
		tags = tags[:3]
	}
	return append([]string{}, tags...)
}
