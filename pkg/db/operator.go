// Package db defines the database-operator contract consumed by the
// store-facing stages (dedup, projection persistence, schema
// management). The pgx implementation lives in internal/iodb.
package db

import (
	"context"

	"github.com/albummap/amdb/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages the PostgreSQL connection pool and basic
// introspection. Advanced operations go through Pool() directly.
type Operator interface {
	// Connect establishes the connection pool and verifies it with a
	// ping.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close releases all connections.
	Close() error

	// Pool returns the underlying pool, or nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables at all.
	HasTables(ctx context.Context) (bool, error)
}
