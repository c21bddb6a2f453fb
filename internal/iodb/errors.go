package iodb

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func ConnectionError(host string, port int, database string, err error) error {
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg: `Could not connect to PostgreSQL at <em>%s:%d/%s</em>.
Check that the server is running and the connection settings in
<em>~/.config/amdb/amdb.yaml</em> are correct.`,
		Vars: []any{host, port, database},
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  fmt.Errorf("operator used before Connect"),
	}
}

func TableCheckError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Cannot check table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("table check %s: %w", table, err),
	}
}

func QueryError(desc string, err error) error {
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  "Database query failed: %s",
		Vars: []any{desc},
		Err:  fmt.Errorf("%s: %w", desc, err),
	}
}
