package ioenrich_test

import (
	"context"
	"sync"
	"testing"

	"github.com/albummap/amdb/internal/ioenrich"
	"github.com/albummap/amdb/internal/iosnapshot"
	"github.com/albummap/amdb/pkg/config"
	"github.com/albummap/amdb/pkg/record"
	"github.com/albummap/amdb/pkg/source"
	"github.com/albummap/amdb/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTagSource is an in-memory primary tier counting its calls.
type fakeTagSource struct {
	mu      sync.Mutex
	calls   int
	tags    map[string][]string
	origins map[string]*source.Origin

	// throttleFirst makes the first tag lookup fail with a throttle
	// response before succeeding.
	throttleFirst bool
	throttled     bool
}

func (f *fakeTagSource) ArtistTags(
	_ context.Context, artist string,
) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.throttleFirst && !f.throttled {
		f.throttled = true
		return nil, &source.ThrottledError{RetryAfter: 0}
	}
	tags, ok := f.tags[record.NormKey(artist)]
	if !ok {
		return nil, source.ErrNotFound
	}
	return tags, nil
}

func (f *fakeTagSource) ArtistOrigin(
	_ context.Context, artist string,
) (*source.Origin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	origin, ok := f.origins[record.NormKey(artist)]
	if !ok {
		return nil, source.ErrNotFound
	}
	return origin, nil
}

func (f *fakeTagSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeReleaseSource is an in-memory secondary tier counting its calls.
// Answers are keyed "artist|title", both normalized, because release
// lookups are per album.
type fakeReleaseSource struct {
	mu        sync.Mutex
	calls     int
	genres    map[string][]string
	countries map[string]string
}

func relKey(artist, title string) string {
	return record.NormKey(artist) + "|" + record.NormKey(title)
}

func (f *fakeReleaseSource) ReleaseGenres(
	_ context.Context, artist, title string,
) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	fields, ok := f.genres[relKey(artist, title)]
	if !ok {
		return nil, source.ErrNotFound
	}
	return fields, nil
}

func (f *fakeReleaseSource) ReleaseCountry(
	_ context.Context, artist, title string,
) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	country, ok := f.countries[relKey(artist, title)]
	if !ok {
		return "", source.ErrNotFound
	}
	return country, nil
}

func (f *fakeReleaseSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDataDir(t.TempDir()),
		config.OptHomeDir(t.TempDir()),
		config.OptMaxRetries(1),
	})
	return cfg
}

func writeStage(
	t *testing.T, cfg *config.Config, stage string, recs []*record.AlbumRecord,
) {
	t.Helper()
	snap := &record.Snapshot{Records: recs}
	path := iosnapshot.Path(cfg.ResolveDataDir(), stage)
	require.NoError(t, iosnapshot.Write(path, stage, snap))
}

func readStage(
	t *testing.T, cfg *config.Config, stage string,
) *record.Snapshot {
	t.Helper()
	snap, err := iosnapshot.Read(iosnapshot.Path(cfg.ResolveDataDir(), stage))
	require.NoError(t, err)
	return snap
}

func tablesOf(t *testing.T) *taxonomy.Tables {
	t.Helper()
	tables, err := taxonomy.Load()
	require.NoError(t, err)
	return tables
}

func TestEnrichGenresPrimary(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Radiohead",
			GenreFamily: record.FamilyUnknown},
	})

	primary := &fakeTagSource{tags: map[string][]string{
		"radiohead": {"alternative rock", "art rock", "britpop", "90s"},
	}}
	enricher := ioenrich.New(tablesOf(t), primary, nil)
	require.NoError(t, enricher.EnrichGenres(context.Background(), cfg))

	snap := readStage(t, cfg, iosnapshot.StageGenres)
	require.Len(t, snap.Records, 1)
	rec := snap.Records[0]

	assert.Equal(t, record.FamilyAltIndie, rec.GenreFamily)
	assert.Equal(t, 0.9, rec.GenreConfidence)
	assert.Equal(t, "lastfm", rec.GenreSource)
	assert.Equal(t, "alternative rock", rec.Genre)
	assert.Len(t, rec.GenreTags, 3)
	assert.Equal(t, 1, primary.callCount())
}

// Re-running over an enriched snapshot with a warm cache performs zero
// source calls and reproduces the same records.
func TestEnrichGenresIdempotent(t *testing.T) {
	cfg := testConfig(t)
	recs := []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Radiohead",
			GenreFamily: record.FamilyUnknown},
		{ID: "mb:release:2", Title: "B", Artist: "Nobody",
			GenreFamily: record.FamilyUnknown},
	}
	writeStage(t, cfg, iosnapshot.StageNormalized, recs)

	tables := tablesOf(t)
	warm := &fakeTagSource{tags: map[string][]string{
		"radiohead": {"indie"},
	}}
	require.NoError(t,
		ioenrich.New(tables, warm, nil).
			EnrichGenres(context.Background(), cfg))
	first := readStage(t, cfg, iosnapshot.StageGenres)
	// One lookup per artist, including the confirmed miss.
	assert.Equal(t, 2, warm.callCount())

	cold := &fakeTagSource{tags: map[string][]string{
		"radiohead": {"indie"},
	}}
	require.NoError(t,
		ioenrich.New(tables, cold, nil).
			EnrichGenres(context.Background(), cfg))
	second := readStage(t, cfg, iosnapshot.StageGenres)

	assert.Zero(t, cold.callCount(), "warm cache must prevent source calls")
	require.Len(t, second.Records, len(first.Records))
	for i := range first.Records {
		assert.Equal(t, *first.Records[i], *second.Records[i])
	}
}

func TestEnrichGenresSecondaryFallback(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Unknown Artist",
			GenreFamily: record.FamilyUnknown},
	})

	primary := &fakeTagSource{}
	secondary := &fakeReleaseSource{genres: map[string][]string{
		"unknown artist|a": {"Electronic", "Techno"},
	}}
	enricher := ioenrich.New(tablesOf(t), primary, secondary)
	require.NoError(t, enricher.EnrichGenres(context.Background(), cfg))

	rec := readStage(t, cfg, iosnapshot.StageGenres).Records[0]
	assert.Equal(t, record.FamilyElectronic, rec.GenreFamily)
	assert.Equal(t, 0.7, rec.GenreConfidence)
	assert.Equal(t, "discogs", rec.GenreSource)
}

// Without a secondary source, a primary miss degrades to Unknown with
// zero confidence and the outcome is cached.
func TestEnrichGenresBothMiss(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Nobody",
			GenreFamily: record.FamilyUnknown},
	})

	primary := &fakeTagSource{}
	enricher := ioenrich.New(tablesOf(t), primary, nil)
	require.NoError(t, enricher.EnrichGenres(context.Background(), cfg))

	rec := readStage(t, cfg, iosnapshot.StageGenres).Records[0]
	assert.Equal(t, record.FamilyUnknown, rec.GenreFamily)
	assert.Zero(t, rec.GenreConfidence)
	assert.Equal(t, "unknown", rec.GenreSource)

	// The miss is cached: a second run makes no calls.
	calls := primary.callCount()
	require.NoError(t, enricher.EnrichGenres(context.Background(), cfg))
	assert.Equal(t, calls, primary.callCount())
}

// A primary miss cached while no secondary source was configured must
// not suppress the secondary lookup once a token appears: the skipped
// tier left no cache entry, so a later run consults it.
func TestEnrichGenresSecondaryAfterCachedMiss(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Somebody",
			GenreFamily: record.FamilyUnknown},
	})

	tables := tablesOf(t)
	first := &fakeTagSource{}
	require.NoError(t,
		ioenrich.New(tables, first, nil).
			EnrichGenres(context.Background(), cfg))
	rec := readStage(t, cfg, iosnapshot.StageGenres).Records[0]
	assert.Equal(t, record.FamilyUnknown, rec.GenreFamily)
	assert.Equal(t, 1, first.callCount())

	second := &fakeTagSource{}
	secondary := &fakeReleaseSource{genres: map[string][]string{
		"somebody|a": {"Electronic"},
	}}
	require.NoError(t,
		ioenrich.New(tables, second, secondary).
			EnrichGenres(context.Background(), cfg))

	rec = readStage(t, cfg, iosnapshot.StageGenres).Records[0]
	assert.Equal(t, record.FamilyElectronic, rec.GenreFamily)
	assert.Equal(t, 0.7, rec.GenreConfidence)
	assert.Equal(t, "discogs", rec.GenreSource)
	assert.Zero(t, second.callCount(), "primary miss stays cached")
	assert.Equal(t, 1, secondary.callCount())
}

// Release-level outcomes are cached per album: two albums by the same
// artist each get their own secondary lookup and result.
func TestEnrichGenresSecondaryPerRelease(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "Early", Artist: "Somebody",
			GenreFamily: record.FamilyUnknown},
		{ID: "mb:release:2", Title: "Late", Artist: "Somebody",
			GenreFamily: record.FamilyUnknown},
	})

	primary := &fakeTagSource{}
	secondary := &fakeReleaseSource{genres: map[string][]string{
		"somebody|early": {"Jazz"},
		"somebody|late":  {"Electronic"},
	}}
	enricher := ioenrich.New(tablesOf(t), primary, secondary)
	require.NoError(t, enricher.EnrichGenres(context.Background(), cfg))

	snap := readStage(t, cfg, iosnapshot.StageGenres)
	assert.Equal(t, record.FamilyJazz, snap.Records[0].GenreFamily)
	assert.Equal(t, record.FamilyElectronic, snap.Records[1].GenreFamily)
	assert.Equal(t, 2, secondary.callCount())
}

func TestEnrichGenresSkipsClassified(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Radiohead",
			GenreFamily: record.FamilyRock, GenreConfidence: 0.9},
	})

	primary := &fakeTagSource{}
	enricher := ioenrich.New(tablesOf(t), primary, nil)
	require.NoError(t, enricher.EnrichGenres(context.Background(), cfg))

	assert.Zero(t, primary.callCount())
	rec := readStage(t, cfg, iosnapshot.StageGenres).Records[0]
	assert.Equal(t, record.FamilyRock, rec.GenreFamily)
}

// A throttle response is retried after the advertised backoff and the
// lookup still succeeds.
func TestEnrichGenresThrottleRetry(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Radiohead",
			GenreFamily: record.FamilyUnknown},
	})

	primary := &fakeTagSource{
		throttleFirst: true,
		tags:          map[string][]string{"radiohead": {"indie"}},
	}
	enricher := ioenrich.New(tablesOf(t), primary, nil)
	require.NoError(t, enricher.EnrichGenres(context.Background(), cfg))

	rec := readStage(t, cfg, iosnapshot.StageGenres).Records[0]
	assert.Equal(t, record.FamilyAltIndie, rec.GenreFamily)
	assert.Equal(t, 2, primary.callCount())
}

func TestEnrichGeographyPrimaryOrigin(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Cornelius",
			Country: record.CountryUnknown, Region: record.RegionDefault},
	})

	primary := &fakeTagSource{origins: map[string]*source.Origin{
		"cornelius": {Country: "Japan"},
	}}
	enricher := ioenrich.New(tablesOf(t), primary, nil)
	require.NoError(t, enricher.EnrichGeography(context.Background(), cfg))

	rec := readStage(t, cfg, iosnapshot.StageGeo).Records[0]
	assert.Equal(t, "Japan", rec.Country)
	assert.Equal(t, "lastfm", rec.CountrySource)
	assert.Equal(t, "artist-origin", rec.CountryType)
	assert.Equal(t, record.RegionAsia, rec.Region)
}

// A record that already knows its country is never touched, whatever
// the sources would answer.
func TestEnrichGeographyNonClobber(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Cornelius",
			Country: "Japan", CountryName: "Japan",
			CountrySource: "mb", CountryType: "release-country",
			Region: record.RegionAsia},
	})

	primary := &fakeTagSource{origins: map[string]*source.Origin{
		"cornelius": {Country: "United States"},
	}}
	enricher := ioenrich.New(tablesOf(t), primary, nil)
	require.NoError(t, enricher.EnrichGeography(context.Background(), cfg))

	rec := readStage(t, cfg, iosnapshot.StageGeo).Records[0]
	assert.Equal(t, "Japan", rec.Country)
	assert.Equal(t, "mb", rec.CountrySource)
	assert.Equal(t, record.RegionAsia, rec.Region)
	assert.Zero(t, primary.callCount())
}

func TestEnrichGeographySecondaryFallback(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Somebody",
			Country: record.CountryUnknown, Region: record.RegionDefault},
	})

	primary := &fakeTagSource{}
	secondary := &fakeReleaseSource{countries: map[string]string{
		"somebody|a": "BR",
	}}
	enricher := ioenrich.New(tablesOf(t), primary, secondary)
	require.NoError(t, enricher.EnrichGeography(context.Background(), cfg))

	rec := readStage(t, cfg, iosnapshot.StageGeo).Records[0]
	assert.Equal(t, "Brazil", rec.Country)
	assert.Equal(t, "discogs", rec.CountrySource)
	assert.Equal(t, "release-country", rec.CountryType)
	assert.Equal(t, record.RegionSouthAmerica, rec.Region)
}

// Same invariant as for genres: a cached origin miss from a run without
// a secondary source must not block the release-country lookup later.
func TestEnrichGeographySecondaryAfterCachedMiss(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Somebody",
			Country: record.CountryUnknown, Region: record.RegionDefault},
	})

	tables := tablesOf(t)
	first := &fakeTagSource{}
	require.NoError(t,
		ioenrich.New(tables, first, nil).
			EnrichGeography(context.Background(), cfg))
	rec := readStage(t, cfg, iosnapshot.StageGeo).Records[0]
	assert.Equal(t, record.CountryUnknown, rec.Country)

	second := &fakeTagSource{}
	secondary := &fakeReleaseSource{countries: map[string]string{
		"somebody|a": "BR",
	}}
	require.NoError(t,
		ioenrich.New(tables, second, secondary).
			EnrichGeography(context.Background(), cfg))

	rec = readStage(t, cfg, iosnapshot.StageGeo).Records[0]
	assert.Equal(t, "Brazil", rec.Country)
	assert.Equal(t, "discogs", rec.CountrySource)
	assert.Equal(t, record.RegionSouthAmerica, rec.Region)
	assert.Zero(t, second.callCount(), "origin miss stays cached")
	assert.Equal(t, 1, secondary.callCount())
}

func TestEnrichGeographyBothMiss(t *testing.T) {
	cfg := testConfig(t)
	writeStage(t, cfg, iosnapshot.StageNormalized, []*record.AlbumRecord{
		{ID: "mb:release:1", Title: "A", Artist: "Nobody",
			Country: record.CountryUnknown, Region: record.RegionDefault},
	})

	primary := &fakeTagSource{}
	enricher := ioenrich.New(tablesOf(t), primary, nil)
	require.NoError(t, enricher.EnrichGeography(context.Background(), cfg))

	rec := readStage(t, cfg, iosnapshot.StageGeo).Records[0]
	assert.Equal(t, record.CountryUnknown, rec.Country)
	assert.False(t, rec.HasCountry())
	assert.Equal(t, record.RegionDefault, rec.Region)

	// The confirmed miss is cached.
	calls := primary.callCount()
	require.NoError(t, enricher.EnrichGeography(context.Background(), cfg))
	assert.Equal(t, calls, primary.callCount())
}
