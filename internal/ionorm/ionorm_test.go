package ionorm_test

import (
	"context"
	"os"
	"testing"

	"github.com/albummap/amdb/internal/ionorm"
	"github.com/albummap/amdb/internal/iosnapshot"
	"github.com/albummap/amdb/pkg/config"
	"github.com/albummap/amdb/pkg/record"
	"github.com/albummap/amdb/pkg/taxonomy"
	"github.com/gnames/gnfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRaw(t *testing.T, dataDir string, raws []*record.RawRecord) {
	t.Helper()
	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(map[string]any{"records": raws})
	require.NoError(t, err)
	err = os.WriteFile(
		iosnapshot.Path(dataDir, iosnapshot.StageRaw), bs, 0644,
	)
	require.NoError(t, err)
}

func runNormalize(
	t *testing.T, raws []*record.RawRecord,
) *record.Snapshot {
	t.Helper()
	dataDir := t.TempDir()
	writeRaw(t, dataDir, raws)

	tables, err := taxonomy.Load()
	require.NoError(t, err)

	cfg := config.New()
	cfg.Update([]config.Option{config.OptDataDir(dataDir)})

	norm := ionorm.New(tables)
	err = norm.Normalize(context.Background(), cfg)
	require.NoError(t, err)

	snap, err := iosnapshot.Read(
		iosnapshot.Path(dataDir, iosnapshot.StageNormalized),
	)
	require.NoError(t, err)
	return snap
}

func TestNormalizeBasic(t *testing.T) {
	snap := runNormalize(t, []*record.RawRecord{
		{
			Provider: "mb", Kind: "release", NativeID: "1",
			Title: "  OK Computer ", Artist: "Radiohead",
			Released: "1997-06-16", TrackCount: 12,
			Genres: []string{"alternative rock", "art rock"},
			Tags:   []string{"90s"},
			Country: "GB",
		},
	})

	require.Len(t, snap.Records, 1)
	rec := snap.Records[0]

	assert.Equal(t, "mb:release:1", rec.ID)
	assert.Equal(t, "OK Computer", rec.Title)
	require.NotNil(t, rec.Year)
	assert.Equal(t, 1997, *rec.Year)
	assert.Equal(t, iosnapshot.StageNormalized, snap.Stage)

	// Provider genre signal maps locally; the enricher will skip this
	// record.
	assert.Equal(t, record.FamilyAltIndie, rec.GenreFamily)
	assert.Equal(t, "mb", rec.GenreSource)
	assert.True(t, rec.HasGenre())

	// The raw country resolves to the canonical name and its region.
	assert.Equal(t, "United Kingdom", rec.Country)
	assert.Equal(t, record.RegionEurope, rec.Region)
	assert.True(t, rec.HasCountry())
}

// Every record carries a valid region bucket after normalization, even
// with no geography signal at all.
func TestNormalizeRegionAlwaysFilled(t *testing.T) {
	raws := []*record.RawRecord{
		{Provider: "mb", Kind: "release", NativeID: "1",
			Title: "A", Artist: "a", Country: "Japan"},
		{Provider: "mb", Kind: "release", NativeID: "2",
			Title: "B", Artist: "b", Locale: "pt_BR"},
		{Provider: "mb", Kind: "release", NativeID: "3",
			Title: "C", Artist: "c", Country: "Atlantis"},
		{Provider: "mb", Kind: "release", NativeID: "4",
			Title: "D", Artist: "d"},
		{Provider: "sp", Kind: "album", NativeID: "5",
			Title: "E", Artist: "e", Locale: "en-XX"},
	}
	snap := runNormalize(t, raws)

	require.Len(t, snap.Records, len(raws))
	for _, rec := range snap.Records {
		assert.True(t, rec.Region.IsValid(), "id %s region %q", rec.ID, rec.Region)
	}

	byID := map[string]*record.AlbumRecord{}
	for _, rec := range snap.Records {
		byID[rec.ID] = rec
	}
	assert.Equal(t, record.RegionAsia, byID["mb:release:1"].Region)
	assert.Equal(t, record.RegionSouthAmerica, byID["mb:release:2"].Region)
	assert.Equal(t, record.RegionDefault, byID["mb:release:3"].Region)
	assert.Equal(t, record.RegionDefault, byID["mb:release:4"].Region)
	assert.Equal(t, record.RegionDefault, byID["sp:album:5"].Region)

	// Records without a trustworthy country keep the placeholder.
	assert.Equal(t, record.CountryUnknown, byID["mb:release:3"].Country)
	assert.False(t, byID["mb:release:3"].HasCountry())
}

// Malformed dates degrade to a nil year instead of failing the batch.
func TestNormalizeMalformedDate(t *testing.T) {
	snap := runNormalize(t, []*record.RawRecord{
		{Provider: "mb", Kind: "release", NativeID: "1",
			Title: "A", Artist: "a", Released: "sometime in the 80s"},
		{Provider: "mb", Kind: "release", NativeID: "2",
			Title: "B", Artist: "b", Released: "1984"},
	})

	require.Len(t, snap.Records, 2)
	assert.Nil(t, snap.Records[0].Year)
	require.NotNil(t, snap.Records[1].Year)
	assert.Equal(t, 1984, *snap.Records[1].Year)
	assert.Equal(t, 1, snap.Stats.WithYear)
}

func TestNormalizeMood(t *testing.T) {
	snap := runNormalize(t, []*record.RawRecord{
		{Provider: "mb", Kind: "release", NativeID: "1",
			Title: "A", Artist: "a", Genres: []string{"ambient"}},
		{Provider: "mb", Kind: "release", NativeID: "2",
			Title: "B", Artist: "b"},
	})

	require.Len(t, snap.Records, 2)
	assert.InDelta(t, 0.30, snap.Records[0].Mood, 1e-9)
	// No signal keeps the neutral default.
	assert.InDelta(t, 0.5, snap.Records[1].Mood, 1e-9)
}

func TestNormalizeMissingInput(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptDataDir(t.TempDir())})

	tables, err := taxonomy.Load()
	require.NoError(t, err)

	err = ionorm.New(tables).Normalize(context.Background(), cfg)
	assert.Error(t, err)
}
