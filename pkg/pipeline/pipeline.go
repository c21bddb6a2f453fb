// Package pipeline defines the contracts for the enrichment pipeline
// stages. Implementations live in internal/io* packages; each stage
// consumes one snapshot and produces the next, so a terminated run is
// resumable from its last durable artifact.
package pipeline

import (
	"context"

	"github.com/albummap/amdb/pkg/config"
)

// Normalizer fills the structurally required fields (mood, region
// bucket, canonical country) using only information already present on
// each record. It performs no network I/O and never fails on malformed
// per-record data; it logs and degrades to defaults.
type Normalizer interface {
	// Normalize reads the raw snapshot, normalizes every record and
	// writes the normalized snapshot. After it returns successfully,
	// every record carries a valid region bucket and a mood in [0,1].
	Normalize(ctx context.Context, cfg *config.Config) error
}

// Enricher attempts to classify records via the external source chain,
// consulting its durable cache before every network call. Re-running an
// Enricher over an already-enriched snapshot performs no redundant work.
type Enricher interface {
	// EnrichGenres classifies records lacking a usable genre.
	EnrichGenres(ctx context.Context, cfg *config.Config) error

	// EnrichGeography resolves countries for records lacking one. It
	// never overwrites a pre-existing non-placeholder country.
	EnrichGeography(ctx context.Context, cfg *config.Config) error
}

// Validator computes fill-rate and distribution statistics over the
// enriched snapshot and emits a structured report. A region-bucket fill
// rate under 100% is a critical failure.
type Validator interface {
	// Validate returns the report and writes its JSON artifact. The
	// error is non-nil only for operational failures; report.Critical
	// carries the pass/fail signal.
	Validate(ctx context.Context, cfg *config.Config) (*Report, error)
}

// Deduplicator reconciles duplicate albums directly against the
// persisted store, inside a single all-or-nothing transaction.
type Deduplicator interface {
	// Dedup merges every duplicate group. With dryRun it only reports
	// what would be merged.
	Dedup(ctx context.Context, cfg *config.Config, dryRun bool) (*DedupResult, error)
}

// DedupResult summarizes one deduplication run.
type DedupResult struct {
	Groups         int `json:"groups"`
	RecordsMerged  int `json:"recordsMerged"`
	RecordsDeleted int `json:"recordsDeleted"`
	RowsRepointed  int `json:"rowsRepointed"`
	RowsDeleted    int `json:"rowsDeleted"`
}
