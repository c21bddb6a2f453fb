// Package iosnapshot reads and writes the versioned pipeline snapshot
// files. Each stage consumes the previous stage's snapshot and writes a
// new one, so any step is inspectable and a terminated run resumes from
// its last durable artifact.
package iosnapshot

import (
	"os"
	"path/filepath"
	"time"

	"github.com/albummap/amdb/pkg/record"
	"github.com/gnames/gnfmt"
)

// Stage names in pipeline order. Each stage reads the previous stage's
// file and writes its own.
const (
	StageRaw        = "raw"
	StageNormalized = "normalized"
	StageGenres     = "genres"
	StageGeo        = "geo"
)

// Path returns the snapshot file path for a stage inside dataDir.
func Path(dataDir, stage string) string {
	return filepath.Join(dataDir, "albums-"+stage+".json")
}

// Read loads and decodes a snapshot file.
func Read(path string) (*record.Snapshot, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	var snap record.Snapshot
	enc := gnfmt.GNjson{}
	if err := enc.Decode(bs, &snap); err != nil {
		return nil, ReadError(path, err)
	}
	return &snap, nil
}

// Write recounts stats, stamps the snapshot and writes it atomically
// (temp file + rename), so a concurrent reader never observes a partial
// snapshot.
func Write(path, stage string, snap *record.Snapshot) error {
	snap.Stage = stage
	snap.GeneratedAt = time.Now().UTC()
	snap.Recount()

	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(snap)
	if err != nil {
		return WriteError(path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, bs, 0644); err != nil {
		return WriteError(path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return WriteError(path, err)
	}
	return nil
}

// CheckIDs verifies id uniqueness within a snapshot and returns the ids
// that appear more than once.
func CheckIDs(snap *record.Snapshot) []string {
	seen := make(map[string]int, len(snap.Records))
	for _, rec := range snap.Records {
		seen[rec.ID]++
	}
	var dupes []string
	for _, rec := range snap.Records {
		if seen[rec.ID] > 1 {
			dupes = append(dupes, rec.ID)
			seen[rec.ID] = 0
		}
	}
	return dupes
}

// Must loads a snapshot and fails with a helpful message when it is
// missing or empty; stages downstream of the collector cannot run
// without their input artifact.
func Must(path string) (*record.Snapshot, error) {
	snap, err := Read(path)
	if err != nil {
		return nil, err
	}
	if len(snap.Records) == 0 {
		return nil, EmptyError(path)
	}
	return snap, nil
}
