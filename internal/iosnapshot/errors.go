package iosnapshot

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func ReadError(path string, err error) error {
	return &gn.Error{
		Code: errcode.SnapshotReadError,
		Msg: `Cannot read snapshot <em>%s</em>.
Run the earlier pipeline stages first, or point --data-dir at the
directory holding the snapshot files.`,
		Vars: []any{path},
		Err:  fmt.Errorf("read snapshot %s: %w", path, err),
	}
}

func WriteError(path string, err error) error {
	return &gn.Error{
		Code: errcode.SnapshotWriteError,
		Msg:  "Cannot write snapshot <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("write snapshot %s: %w", path, err),
	}
}

func EmptyError(path string) error {
	return &gn.Error{
		Code: errcode.SnapshotEmptyError,
		Msg:  "Snapshot <em>%s</em> contains no records",
		Vars: []any{path},
		Err:  fmt.Errorf("snapshot %s is empty", path),
	}
}
