package iodedup_test

import (
	"context"
	"testing"
	"time"

	"github.com/albummap/amdb/internal/iodb"
	"github.com/albummap/amdb/internal/iodedup"
	"github.com/albummap/amdb/internal/ioschema"
	"github.com/albummap/amdb/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: this is an integration test that requires PostgreSQL; it runs
// against the amdb_test database. Skip with: go test -short

// TestDedup_Integration merges three duplicates of one album end-to-end
// and verifies the merge leaves exactly one canonical survivor, zero
// orphaned dependent rows and zero uniqueness violations.
func TestDedup_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()

	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database),
		"Should connect to the test database")
	defer op.Close()

	sm := ioschema.NewManager(op)
	_ = sm.DropAll(ctx)
	require.NoError(t, sm.Create(ctx), "Schema creation should succeed")

	pool := op.Pool()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	exec := func(sql string, args ...any) {
		t.Helper()
		_, err := pool.Exec(ctx, sql, args...)
		require.NoError(t, err)
	}

	// Three spellings of one album (a-1 is the oldest, hence canonical)
	// plus one unrelated album that must survive untouched.
	exec(`INSERT INTO albums (id, title, artist, year, created_at, updated_at)
		VALUES
		('a-1', 'OK Computer', 'Radiohead', 1997, $1, $1),
		('a-2', 'ok computer', 'radiohead', 1997, $2, $2),
		('a-3', 'OK  Computer', 'Radiohead ', 1997, $3, $3),
		('b-1', 'Kid A', 'Radiohead', 2000, $1, $1)`,
		base, base.Add(time.Hour), base.Add(2*time.Hour))

	// One-row-per-album tables: a collision with the canonical and a
	// collision among the redundant rows.
	exec(`INSERT INTO album_details (album_id, payload, fetched_at)
		VALUES ('a-1', '{}', $1), ('a-2', '{}', $1)`, base)
	exec(`INSERT INTO coordinates (album_id, x, y, snapshot_at)
		VALUES ('a-2', 1, 2, $1), ('a-3', 3, 4, $1)`, base)

	// Keyed tables: a collision with the canonical, a collision among
	// redundant rows, and rows that must simply be re-pointed.
	exec(`INSERT INTO album_links (album_id, kind, url) VALUES
		('a-1', 'store', 'https://example.com/1'),
		('a-2', 'store', 'https://example.com/2'),
		('a-2', 'wiki', 'https://example.com/3')`)
	exec(`INSERT INTO user_interactions
		(album_id, user_id, kind, value, created_at) VALUES
		('a-2', 'u1', 'rating', 5, $1),
		('a-3', 'u1', 'rating', 4, $1),
		('a-3', 'u2', 'listen', 1, $1)`, base)

	res, err := iodedup.New(op).Dedup(ctx, cfg, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Groups)
	assert.Equal(t, 3, res.RecordsMerged)
	assert.Equal(t, 2, res.RecordsDeleted)

	count := func(sql string) int {
		t.Helper()
		var n int
		require.NoError(t, pool.QueryRow(ctx, sql).Scan(&n))
		return n
	}

	// One survivor per duplicate group; the unrelated album remains.
	assert.Equal(t, 2, count(`SELECT count(*) FROM albums`))
	assert.Equal(t, 1, count(`SELECT count(*) FROM albums WHERE id = 'a-1'`))
	assert.Equal(t, 1, count(`SELECT count(*) FROM albums WHERE id = 'b-1'`))

	// Zero orphans in any touched dependent table.
	for _, table := range []string{
		"album_details", "coordinates", "album_links", "user_interactions",
	} {
		assert.Zero(t, count(
			`SELECT count(*) FROM `+table+` d
			WHERE NOT EXISTS (SELECT 1 FROM albums a WHERE a.id = d.album_id)`),
			"orphans in %s", table)
	}

	// Zero uniqueness violations after re-pointing.
	assert.Zero(t, count(`SELECT count(*) FROM (
		SELECT album_id FROM album_details
		GROUP BY album_id HAVING count(*) > 1) dup`))
	assert.Zero(t, count(`SELECT count(*) FROM (
		SELECT album_id FROM coordinates
		GROUP BY album_id HAVING count(*) > 1) dup`))
	assert.Zero(t, count(`SELECT count(*) FROM (
		SELECT album_id, kind FROM album_links
		GROUP BY album_id, kind HAVING count(*) > 1) dup`))
	assert.Zero(t, count(`SELECT count(*) FROM (
		SELECT album_id, user_id, kind FROM user_interactions
		GROUP BY album_id, user_id, kind HAVING count(*) > 1) dup`))

	// The canonical keeps its own rows plus the re-pointed ones.
	assert.Equal(t, 1,
		count(`SELECT count(*) FROM album_details WHERE album_id = 'a-1'`))
	assert.Equal(t, 1,
		count(`SELECT count(*) FROM coordinates WHERE album_id = 'a-1'`))
	assert.Equal(t, 2,
		count(`SELECT count(*) FROM album_links WHERE album_id = 'a-1'`))
	assert.Equal(t, 2,
		count(`SELECT count(*) FROM user_interactions WHERE album_id = 'a-1'`))
}
