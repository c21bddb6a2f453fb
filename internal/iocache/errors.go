package iocache

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func OpenError(path string, err error) error {
	return &gn.Error{
		Code: errcode.EnrichCacheOpenError,
		Msg: `Cannot open enrichment cache at <em>%s</em>.
If the cache is corrupted, remove the directory and re-run; lookups
will be repeated against the external sources.`,
		Vars: []any{path},
		Err:  fmt.Errorf("open cache %s: %w", path, err),
	}
}

func ReadError(key string, err error) error {
	return &gn.Error{
		Code: errcode.EnrichCacheReadError,
		Msg:  "Cannot read cache entry for <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("cache get %q: %w", key, err),
	}
}

func WriteError(key string, err error) error {
	return &gn.Error{
		Code: errcode.EnrichCacheWriteError,
		Msg:  "Cannot write cache entry for <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("cache put %q: %w", key, err),
	}
}
