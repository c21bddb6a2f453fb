// Package source defines the contracts for the two external enrichment
// tiers: the artist-level tag source (primary) and the release-level
// database (secondary). Implementations in internal/iolastfm and
// internal/iodiscogs own their rate limiting; callers see plain blocking
// request-response methods.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound signals a permanent "no match" from a source (404 or empty
// result). It is cached and not retried within the same run.
var ErrNotFound = errors.New("not found")

// ThrottledError signals a rate-limit response. RetryAfter carries the
// source's advertised backoff; callers must wait that long before
// resuming.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("throttled, retry after %s", e.RetryAfter)
}

// Origin is an artist's place of origin as reported by the primary
// source: a country plus a coarse region hint.
type Origin struct {
	Country    string
	RegionHint string
}

// TagSource is the primary tier: artist-level tags and origin.
type TagSource interface {
	// ArtistTags returns free-text tags for an artist ordered by
	// weight, or ErrNotFound.
	ArtistTags(ctx context.Context, artist string) ([]string, error)

	// ArtistOrigin returns the artist's place of origin, or
	// ErrNotFound.
	ArtistOrigin(ctx context.Context, artist string) (*Origin, error)
}

// ReleaseSource is the secondary tier: release-level genre/style fields
// and country of issue. It requires a configured credential; without one
// the enrichers skip this tier entirely.
type ReleaseSource interface {
	// ReleaseGenres returns genre and style fields for a specific
	// release, or ErrNotFound.
	ReleaseGenres(ctx context.Context, artist, title string) ([]string, error)

	// ReleaseCountry returns the country of issue for a specific
	// release, or ErrNotFound.
	ReleaseCountry(ctx context.Context, artist, title string) (string, error)
}
