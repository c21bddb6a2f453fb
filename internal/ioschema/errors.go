package ioschema

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  fmt.Errorf("schema manager used before Connect"),
	}
}

func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  "Cannot open GORM session over the database pool",
		Err:  fmt.Errorf("gorm open: %w", err),
	}
}

func CreateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  "Cannot create the album-store schema",
		Err:  fmt.Errorf("schema create: %w", err),
	}
}

func MigrateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  "Cannot migrate the album-store schema",
		Err:  fmt.Errorf("schema migrate: %w", err),
	}
}
