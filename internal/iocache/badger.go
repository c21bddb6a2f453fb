// Package iocache provides the durable enrichment-cache backends behind
// the pkg/cache.Store contract. The default backend is Badger; a SQLite
// backend exists for operators who want to inspect cache contents with
// the sqlite3 shell, and a memory backend backs tests. Entries are
// encoded as JSON with gnfmt in every backend, so switching backends
// never changes entry semantics.
package iocache

import (
	"log/slog"

	"github.com/albummap/amdb/pkg/cache"
	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

type badgerStore struct {
	dir string
	db  *badger.DB
}

// NewBadger opens (creating if needed) a Badger-backed cache at dir.
// Existing entries survive across pipeline runs; clearing the directory
// is the only eviction path.
func NewBadger(dir string) (cache.Store, error) {
	if err := gnsys.MakeDir(dir); err != nil {
		slog.Error("Cannot create cache directory", "error", err, "dir", dir)
		return nil, OpenError(dir, err)
	}

	options := badger.DefaultOptions(dir)
	options.Logger = nil // disable badger's internal logging

	db, err := badger.Open(options)
	if err != nil {
		slog.Error("Cannot open cache database", "error", err, "dir", dir)
		return nil, OpenError(dir, err)
	}

	return &badgerStore{dir: dir, db: db}, nil
}

func (s *badgerStore) Get(key string) (*cache.Entry, error) {
	var valBytes []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil // not an error, just never looked up
		}
		if err != nil {
			return err
		}
		valBytes, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, ReadError(key, err)
	}
	if valBytes == nil {
		return nil, nil
	}

	enc := gnfmt.GNjson{}
	var entry cache.Entry
	if err := enc.Decode(valBytes, &entry); err != nil {
		return nil, ReadError(key, err)
	}
	return &entry, nil
}

func (s *badgerStore) Put(key string, e *cache.Entry) error {
	enc := gnfmt.GNjson{}
	valBytes, err := enc.Encode(e)
	if err != nil {
		return WriteError(key, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), valBytes)
	})
	if err != nil {
		return WriteError(key, err)
	}
	return nil
}

func (s *badgerStore) Has(key string) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, ReadError(key, err)
	}
	return found, nil
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
