// Package ioschema implements db.SchemaManager with GORM AutoMigrate
// over the shared pgx pool.
package ioschema

import (
	"context"
	"fmt"

	"github.com/albummap/amdb/pkg/db"
	"github.com/albummap/amdb/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager backed by the operator's pool.
func NewManager(op db.Operator) db.SchemaManager {
	return &manager{operator: op}
}

// gormDB opens a GORM session over the existing pgx pool so schema work
// shares the pool's connection settings.
func (m *manager) gormDB() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gdb, nil
}

// Create creates the initial album-store schema.
func (m *manager) Create(ctx context.Context) error {
	gdb, err := m.gormDB()
	if err != nil {
		return err
	}
	if err := schema.Migrate(gdb.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}
	return nil
}

// Migrate updates the schema to the latest version. GORM tracks column
// and index changes itself.
func (m *manager) Migrate(ctx context.Context) error {
	gdb, err := m.gormDB()
	if err != nil {
		return err
	}
	if err := schema.Migrate(gdb.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}

// DropAll drops every amdb table, dependent tables first.
func (m *manager) DropAll(ctx context.Context) error {
	gdb, err := m.gormDB()
	if err != nil {
		return err
	}
	models := schema.AllModels()
	// Reverse order: dependents before albums.
	for i := len(models) - 1; i >= 0; i-- {
		if err := gdb.WithContext(ctx).Migrator().DropTable(models[i]); err != nil {
			return CreateSchemaError(fmt.Errorf("drop table: %w", err))
		}
	}
	return nil
}
