package iocache

import (
	"database/sql"
	"path/filepath"

	"github.com/albummap/amdb/pkg/cache"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite-backed cache at dir/cache.sqlite. Entries are
// stored as JSON in a plain two-column table, so the cache can be
// inspected or edited with the sqlite3 shell between runs.
func NewSQLite(dir string) (cache.Store, error) {
	if err := gnsys.MakeDir(dir); err != nil {
		return nil, OpenError(dir, err)
	}
	path := filepath.Join(dir, "cache.sqlite")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS entries (
	key TEXT PRIMARY KEY,
	entry TEXT NOT NULL
)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(key string) (*cache.Entry, error) {
	var raw string
	err := s.db.QueryRow(
		"SELECT entry FROM entries WHERE key = ?", key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ReadError(key, err)
	}

	enc := gnfmt.GNjson{}
	var entry cache.Entry
	if err := enc.Decode([]byte(raw), &entry); err != nil {
		return nil, ReadError(key, err)
	}
	return &entry, nil
}

func (s *sqliteStore) Put(key string, e *cache.Entry) error {
	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(e)
	if err != nil {
		return WriteError(key, err)
	}
	_, err = s.db.Exec(`
INSERT INTO entries (key, entry) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET entry = excluded.entry`,
		key, string(bs),
	)
	if err != nil {
		return WriteError(key, err)
	}
	return nil
}

func (s *sqliteStore) Has(key string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM entries WHERE key = ?", key,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, ReadError(key, err)
	}
	return true, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
