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
	"github.com/albummap/amdb/pkg/source"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
)

// Country type tags distinguishing how the geography was derived.
const (
	countryTypeOrigin  = "artist-origin"
	countryTypeRelease = "release-country"
)

// EnrichGeography resolves a country for every record still carrying the
// placeholder. Artist origins are cached per artist, release countries
// per artist+title. A pre-existing non-placeholder country is never
// touched; records whose country resolves also get their region bucket
// corrected.
func (e *ioenrich) EnrichGeography(ctx context.Context, cfg *config.Config) error {
	dataDir := cfg.ResolveDataDir()
	inPath := geoInput(dataDir)
	snap, err := iosnapshot.Must(inPath)
	if err != nil {
		return err
	}

	store, err := iocache.Open(cfg, iocache.KindGeo)
	if err != nil {
		return CacheOpenError(iocache.KindGeo, err)
	}
	defer store.Close()

	slog.Info("Enriching geography", "records", len(snap.Records), "input", inPath)
	bar := pb.Full.Start(len(snap.Records))
	bar.Set("prefix", "geo ")

	st := &tierStats{}
	var skipped, resolved, unresolved int
	for _, rec := range snap.Records {
		bar.Increment()
		if err := ctx.Err(); err != nil {
			bar.Finish()
			return err
		}
		if rec.HasCountry() {
			skipped++
			continue
		}
		aKey := record.NormKey(rec.Artist)
		if aKey == "" {
			unresolved++
			continue
		}

		entry, err := e.lookup(ctx, store, aKey, e.primary != nil, st,
			func(ctx context.Context) (*cache.Entry, error) {
				return e.fetchOrigin(ctx, cfg, rec.Artist)
			})
		if err != nil {
			bar.Finish()
			return err
		}
		if e.applyCountry(rec, entry) {
			resolved++
			continue
		}

		entry, err = e.lookup(ctx, store, releaseKey(rec.Artist, rec.Title),
			e.secondary != nil, st,
			func(ctx context.Context) (*cache.Entry, error) {
				return e.fetchReleaseCountry(ctx, cfg, rec)
			})
		if err != nil {
			bar.Finish()
			return err
		}
		if e.applyCountry(rec, entry) {
			resolved++
			continue
		}
		unresolved++
	}
	bar.Finish()

	outPath := iosnapshot.Path(dataDir, iosnapshot.StageGeo)
	if err := iosnapshot.Write(outPath, iosnapshot.StageGeo, snap); err != nil {
		return err
	}
	slog.Info("Wrote geography snapshot",
		"path", outPath,
		"skipped", humanize.Comma(int64(skipped)),
		"cacheHits", humanize.Comma(int64(st.hits)),
		"fetched", humanize.Comma(int64(st.fetched)),
		"resolved", humanize.Comma(int64(resolved)),
		"unresolved", humanize.Comma(int64(unresolved)),
	)
	return nil
}

// fetchOrigin consults the primary tier for one artist's origin. An
// origin string the tables do not know is kept on the entry, so a later
// run can resolve it once the tables learn the name. The returned error
// is non-nil only on context cancellation.
func (e *ioenrich) fetchOrigin(
	ctx context.Context,
	cfg *config.Config,
	artist string,
) (*cache.Entry, error) {
	entry := &cache.Entry{Source: sourcePrimary, FetchedAt: time.Now().UTC()}
	origin, err := fetchWithRetry(ctx, cfg.Enrich.MaxRetries, "artist origin",
		func(ctx context.Context) (*source.Origin, error) {
			return e.primary.ArtistOrigin(ctx, artist)
		})
	if err != nil || origin == nil || origin.Country == "" {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		entry.NotFound = true
		return entry, nil
	}
	if c, ok := e.tables.ResolveCountry(origin.Country); ok {
		entry.CountryName = c.Name
		entry.CountryCode = c.Code
		return entry, nil
	}
	slog.Debug("Unresolvable artist origin",
		"artist", artist, "origin", origin.Country)
	entry.CountryName = origin.Country
	return entry, nil
}

// fetchReleaseCountry consults the secondary tier for one release's
// country of issue.
func (e *ioenrich) fetchReleaseCountry(
	ctx context.Context,
	cfg *config.Config,
	rec *record.AlbumRecord,
) (*cache.Entry, error) {
	entry := &cache.Entry{Source: sourceSecondary, FetchedAt: time.Now().UTC()}
	country, err := fetchWithRetry(ctx, cfg.Enrich.MaxRetries, "release country",
		func(ctx context.Context) (string, error) {
			return e.secondary.ReleaseCountry(ctx, rec.Artist, rec.Title)
		})
	if err != nil || country == "" {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		entry.NotFound = true
		return entry, nil
	}
	if c, ok := e.tables.ResolveCountry(country); ok {
		entry.CountryName = c.Name
		entry.CountryCode = c.Code
		return entry, nil
	}
	slog.Debug("Unresolvable release country",
		"id", rec.ID, "country", country)
	entry.CountryName = country
	return entry, nil
}

// applyCountry writes a cached geography outcome onto the record,
// honoring the write-once country rule. Returns true when the record
// ends up with a resolved country.
func (e *ioenrich) applyCountry(rec *record.AlbumRecord, entry *cache.Entry) bool {
	if entry == nil || entry.NotFound {
		return false
	}
	s := entry.CountryName
	if s == "" {
		s = entry.CountryCode
	}
	c, ok := e.tables.ResolveCountry(s)
	if !ok {
		return false
	}
	src, typ := sourcePrimary, countryTypeOrigin
	if entry.Source == sourceSecondary {
		src, typ = sourceSecondary, countryTypeRelease
	}
	if !rec.SetCountry(c.Name, c.Name, src, typ) {
		return false
	}
	rec.Region = record.Region(c.Region)
	return true
}
