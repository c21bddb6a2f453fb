package iocache_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/albummap/amdb/internal/iocache"
	"github.com/albummap/amdb/pkg/cache"
	"github.com/albummap/amdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the Store contract against one backend.
func exerciseStore(t *testing.T, store cache.Store) {
	t.Helper()

	// A key never looked up yields (nil, nil).
	entry, err := store.Get("radiohead")
	require.NoError(t, err)
	assert.Nil(t, entry)

	has, err := store.Has("radiohead")
	require.NoError(t, err)
	assert.False(t, has)

	fetched := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	want := &cache.Entry{
		Tags:        []string{"alternative rock", "art rock"},
		CountryName: "United Kingdom",
		CountryCode: "GB",
		Source:      "lastfm",
		FetchedAt:   fetched,
	}
	require.NoError(t, store.Put("radiohead", want))

	got, err := store.Get("radiohead")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Tags, got.Tags)
	assert.Equal(t, want.CountryName, got.CountryName)
	assert.Equal(t, want.Source, got.Source)
	assert.False(t, got.NotFound)
	assert.True(t, want.FetchedAt.Equal(got.FetchedAt))

	has, err = store.Has("radiohead")
	require.NoError(t, err)
	assert.True(t, has)

	// Overwrite is allowed; last write wins.
	require.NoError(t, store.Put("radiohead", &cache.Entry{NotFound: true}))
	got, err = store.Get("radiohead")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.NotFound)
	assert.Empty(t, got.Tags)

	// A confirmed miss is a present entry, distinct from never-looked-up.
	require.NoError(t, store.Put("nobody", &cache.Entry{NotFound: true}))
	got, err = store.Get("nobody")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.NotFound)
	assert.True(t, got.Empty())
}

func TestBadgerStore(t *testing.T) {
	store, err := iocache.NewBadger(filepath.Join(t.TempDir(), "genres"))
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := iocache.NewSQLite(filepath.Join(t.TempDir(), "genres"))
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStore(t *testing.T) {
	store := iocache.NewMemory()
	defer store.Close()
	exerciseStore(t, store)
}

// Entries must survive a close/reopen cycle in the durable backends.
func TestDurability(t *testing.T) {
	backends := []struct {
		name string
		open func(dir string) (cache.Store, error)
	}{
		{"badger", iocache.NewBadger},
		{"sqlite", iocache.NewSQLite},
	}

	for _, tt := range backends {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "geo")

			store, err := tt.open(dir)
			require.NoError(t, err)
			require.NoError(t, store.Put("bjork", &cache.Entry{
				CountryName: "Iceland", CountryCode: "IS",
			}))
			require.NoError(t, store.Close())

			store, err = tt.open(dir)
			require.NoError(t, err)
			defer store.Close()

			got, err := store.Get("bjork")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Iceland", got.CountryName)
		})
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptCacheBackend("sqlite"),
	})

	store, err := iocache.Open(cfg, iocache.KindGenres)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("k", &cache.Entry{Source: "lastfm"}))
	got, err := store.Get("k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "lastfm", got.Source)
}
