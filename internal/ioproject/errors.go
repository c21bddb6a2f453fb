package ioproject

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func PersistError(table string, err error) error {
	return &gn.Error{
		Code: errcode.ProjectPersistError,
		Msg: `Cannot persist projection results into <em>%s</em>.
Run <em>amdb create</em> first if the store schema does not exist yet.`,
		Vars: []any{table},
		Err:  fmt.Errorf("upsert %s: %w", table, err),
	}
}
