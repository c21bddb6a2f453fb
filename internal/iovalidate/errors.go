package iovalidate

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func ReportWriteError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ValidateReportWriteError,
		Msg:  "Cannot write validation report to <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("write report %s: %w", path, err),
	}
}

func CriticalError() error {
	return &gn.Error{
		Code: errcode.ValidateCriticalError,
		Msg: `Snapshot failed validation: some records carry no region bucket.
Every record must belong to a region before the dataset ships.`,
		Err: fmt.Errorf("critical validation failure"),
	}
}
