// Package cache defines the durable enrichment-cache contract. Each
// enrichment type (genres, geography) keeps its own store so a prior
// run's lookups are never repeated. Implementations live in
// internal/iocache and can be backed by Badger, SQLite or memory without
// changing caller code.
package cache

import (
	"time"
)

// Entry records the outcome of one external lookup. A stored entry with
// NotFound=true means "looked up and confirmed absent", which is
// distinct from the key being missing ("never looked up").
type Entry struct {
	// Genres are mapped/usable genre names found for the key.
	Genres []string `json:"genres,omitempty"`

	// Tags are raw free-text tags as returned by the source.
	Tags []string `json:"tags,omitempty"`

	CountryName string `json:"countryName,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`

	// Source tags the tier that produced the payload, so re-applying a
	// cached outcome attributes it to the same provider.
	Source string `json:"source,omitempty"`

	// NotFound is true when every configured source was consulted and
	// none produced a usable result.
	NotFound bool `json:"notFound"`

	// FetchedAt is when the lookup completed.
	FetchedAt time.Time `json:"fetchedAt"`
}

// Empty reports whether the entry carries no payload at all.
func (e *Entry) Empty() bool {
	return len(e.Genres) == 0 && len(e.Tags) == 0 &&
		e.CountryName == "" && e.CountryCode == ""
}

// Store is a durable key→Entry mapping. Keys must already be normalized
// with record.NormKey. Entries are never evicted automatically; clearing
// the backing directory or file is the only invalidation path.
type Store interface {
	// Get returns the entry for key, or (nil, nil) when the key was
	// never looked up.
	Get(key string) (*Entry, error)

	// Put stores the entry for key, overwriting any previous value.
	// Implementations must persist immediately (write-through): a crash
	// mid-run loses at most the in-flight record.
	Put(key string, e *Entry) error

	// Has reports whether key is present without decoding the entry.
	Has(key string) (bool, error)

	// Close releases backing resources.
	Close() error
}
