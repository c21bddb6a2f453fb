package iocache

import (
	"path/filepath"

	"github.com/albummap/amdb/pkg/cache"
	"github.com/albummap/amdb/pkg/config"
)

// Enrichment cache kinds; each gets its own store directory so the
// genre and geography caches never collide.
const (
	KindGenres = "genres"
	KindGeo    = "geo"
)

// Open returns the configured durable cache for one enrichment kind,
// rooted under the application cache directory.
func Open(cfg *config.Config, kind string) (cache.Store, error) {
	dir := filepath.Join(config.CacheDir(cfg.HomeDir), kind)
	switch cfg.Enrich.CacheBackend {
	case "sqlite":
		return NewSQLite(dir)
	default:
		return NewBadger(dir)
	}
}
