// Package iodedup implements store maintenance: merging duplicate album
// rows directly in PostgreSQL. Grouping is by normalized title, artist
// and release year; per group one canonical row survives and every
// dependent table is re-pointed at it. The whole run is one transaction,
// so a failed merge leaves the store untouched.
package iodedup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/albummap/amdb/internal/iodb"
	"github.com/albummap/amdb/pkg/config"
	"github.com/albummap/amdb/pkg/db"
	"github.com/albummap/amdb/pkg/pipeline"
	"github.com/albummap/amdb/pkg/record"
	"github.com/dustin/go-humanize"
)

type iodedup struct {
	op db.Operator
}

// New returns a Deduplicator backed by a connected database operator.
func New(op db.Operator) pipeline.Deduplicator {
	return &iodedup{op: op}
}

// albumRow is the slice of the albums table the grouping needs.
type albumRow struct {
	ID        string
	Title     string
	Artist    string
	Year      *int
	CreatedAt time.Time
}

// mergePlan is one duplicate group with its canonical member elected.
type mergePlan struct {
	Key       string
	Canonical albumRow
	Redundant []albumRow
}

// Dedup merges every duplicate group inside a single transaction. With
// dryRun it only reports what would be merged.
func (d *iodedup) Dedup(
	ctx context.Context,
	cfg *config.Config,
	dryRun bool,
) (*pipeline.DedupResult, error) {
	pool := d.op.Pool()
	if pool == nil {
		return nil, iodb.NotConnectedError()
	}

	albums, err := d.loadAlbums(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Scanning for duplicate albums", "albums", len(albums))

	plans := planMerges(albums)
	res := &pipeline.DedupResult{Groups: len(plans)}
	for _, plan := range plans {
		res.RecordsMerged += 1 + len(plan.Redundant)
		res.RecordsDeleted += len(plan.Redundant)
	}

	if dryRun {
		printPlans(plans)
		return res, nil
	}
	if len(plans) == 0 {
		slog.Info("No duplicate albums found")
		return res, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, MergeError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	for _, plan := range plans {
		repointed, deleted, err := mergeGroup(ctx, tx, plan)
		if err != nil {
			return nil, err
		}
		res.RowsRepointed += repointed
		res.RowsDeleted += deleted
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, MergeError("commit transaction", err)
	}

	slog.Info("Merged duplicate albums",
		"groups", res.Groups,
		"albumsDeleted", res.RecordsDeleted,
		"rowsRepointed", res.RowsRepointed,
		"rowsDeleted", res.RowsDeleted,
	)
	return res, nil
}

func (d *iodedup) loadAlbums(ctx context.Context) ([]albumRow, error) {
	rows, err := d.op.Pool().Query(ctx,
		"SELECT id, title, artist, year, created_at FROM albums",
	)
	if err != nil {
		return nil, QueryError("select albums", err)
	}
	defer rows.Close()

	var albums []albumRow
	for rows.Next() {
		var a albumRow
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Artist, &a.Year, &a.CreatedAt,
		); err != nil {
			return nil, QueryError("scan album row", err)
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, QueryError("iterate albums", err)
	}
	return albums, nil
}

// planMerges groups albums by duplicate key and elects the canonical
// member of each group with more than one member. Pure; also exercised
// directly by tests.
func planMerges(albums []albumRow) []mergePlan {
	groups := make(map[string][]albumRow)
	for _, a := range albums {
		key := record.DupKey(a.Title, a.Artist, a.Year)
		groups[key] = append(groups[key], a)
	}

	var plans []mergePlan
	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		canonical, redundant := electCanonical(group)
		plans = append(plans, mergePlan{
			Key:       key,
			Canonical: canonical,
			Redundant: redundant,
		})
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Key < plans[j].Key })
	return plans
}

// electCanonical picks the earliest-created member, ties broken by
// lowest id, and returns it with the remaining members.
func electCanonical(group []albumRow) (albumRow, []albumRow) {
	sorted := append([]albumRow{}, group...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0], sorted[1:]
}

func printPlans(plans []mergePlan) {
	if len(plans) == 0 {
		fmt.Println("No duplicate albums found.")
		return
	}
	fmt.Printf("Found %s duplicate groups:\n\n",
		humanize.Comma(int64(len(plans))))
	for _, plan := range plans {
		fmt.Printf("%q by %q:\n", plan.Canonical.Title, plan.Canonical.Artist)
		fmt.Printf("  keep   %s (created %s)\n",
			plan.Canonical.ID,
			plan.Canonical.CreatedAt.Format("2006-01-02"),
		)
		for _, r := range plan.Redundant {
			fmt.Printf("  delete %s (created %s)\n",
				r.ID, r.CreatedAt.Format("2006-01-02"))
		}
	}
}
