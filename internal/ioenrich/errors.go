package ioenrich

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func CacheOpenError(kind string, err error) error {
	return &gn.Error{
		Code: errcode.EnrichCacheOpenError,
		Msg: `Cannot open the <em>%s</em> enrichment cache.
If the cache directory is corrupted, remove it and re-run; lookups
will be repeated against the sources.`,
		Vars: []any{kind},
		Err:  fmt.Errorf("open %s cache: %w", kind, err),
	}
}

func CacheReadError(key string, err error) error {
	return &gn.Error{
		Code: errcode.EnrichCacheReadError,
		Msg:  "Cannot read cache entry for <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("cache get %q: %w", key, err),
	}
}

func CacheWriteError(key string, err error) error {
	return &gn.Error{
		Code: errcode.EnrichCacheWriteError,
		Msg:  "Cannot write cache entry for <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("cache put %q: %w", key, err),
	}
}
