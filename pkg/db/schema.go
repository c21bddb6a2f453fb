package db

import (
	"context"
)

// SchemaManager manages the album-store schema with GORM AutoMigrate.
// Both operations are idempotent and safe to run repeatedly.
type SchemaManager interface {
	// Create creates the initial schema. Callers decide beforehand
	// whether dropping existing tables is acceptable.
	Create(ctx context.Context) error

	// Migrate updates the schema to the latest version.
	Migrate(ctx context.Context) error

	// DropAll drops every amdb table. Used by create after explicit
	// user confirmation.
	DropAll(ctx context.Context) error
}
