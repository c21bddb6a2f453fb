package iodedup

import (
	"fmt"

	"github.com/albummap/amdb/pkg/errcode"
	"github.com/gnames/gn"
)

func QueryError(desc string, err error) error {
	return &gn.Error{
		Code: errcode.DedupQueryError,
		Msg:  "Cannot read albums for deduplication: %s",
		Vars: []any{desc},
		Err:  fmt.Errorf("%s: %w", desc, err),
	}
}

func MergeError(desc string, err error) error {
	return &gn.Error{
		Code: errcode.DedupMergeError,
		Msg: `Duplicate merge failed at <em>%s</em>.
The transaction was rolled back; the store is unchanged.`,
		Vars: []any{desc},
		Err:  fmt.Errorf("%s: %w", desc, err),
	}
}
