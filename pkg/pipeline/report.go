package pipeline

import (
	"time"
)

// Report is the canonical validation artifact. Consumers gate
// deployments on Critical, not on individual stage exit codes.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`

	Total        int `json:"total"`
	DuplicateIDs int `json:"duplicateIds"`

	// Fields maps tracked field names to their fill rates.
	Fields []FieldFill `json:"fields"`

	// Distributions holds top-N tables for genre family, region bucket
	// and country.
	Distributions map[string][]DistEntry `json:"distributions"`

	// UnclassifiedSample lists up to 20 record ids that remain without
	// a genre family after enrichment.
	UnclassifiedSample []string `json:"unclassifiedSample,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`

	// Critical is true when the region-bucket fill rate is below 100%.
	// The process must exit non-zero in that case.
	Critical bool `json:"critical"`
}

// FieldFill is one row of the fill-rate table.
type FieldFill struct {
	Field   string  `json:"field"`
	Filled  int     `json:"filled"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// DistEntry is one row of a distribution table.
type DistEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Warning pairs a finding with a recommendation.
type Warning struct {
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
	Critical       bool   `json:"critical"`
}
