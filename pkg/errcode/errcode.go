// Package errcode enumerates error codes used across amdb. Codes let the
// CLI map internal failures to user-facing messages without string
// matching.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBEmptyDatabaseError
	DBQueryError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Snapshot errors
	SnapshotReadError
	SnapshotWriteError
	SnapshotEmptyError

	// Normalizer errors
	NormalizeTablesError

	// Enrichment errors
	EnrichCacheOpenError
	EnrichCacheReadError
	EnrichCacheWriteError
	EnrichSourceError

	// Validator errors
	ValidateCriticalError
	ValidateReportWriteError

	// Deduplicator errors
	DedupQueryError
	DedupMergeError

	// Projection errors
	ProjectPersistError
)
