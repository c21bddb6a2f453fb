package iodedup

import (
	"context"
	"fmt"
	"strings"

	"github.com/albummap/amdb/pkg/schema"
	"github.com/jackc/pgx/v5"
)

// mergeGroup re-points every dependent table from the redundant albums
// to the canonical one and deletes the redundant album rows. For each
// dependent table, rows that would collide with a canonical row (or
// with another surviving redundant row) on the table's uniqueness key
// are deleted first, so the re-point never violates a unique index.
func mergeGroup(
	ctx context.Context,
	tx pgx.Tx,
	plan mergePlan,
) (repointed, deleted int, err error) {
	redIDs := make([]string, len(plan.Redundant))
	for i, r := range plan.Redundant {
		redIDs[i] = r.ID
	}

	for _, t := range schema.DependentTables() {
		rp, del, err := mergeTable(ctx, tx, t, plan.Canonical.ID, redIDs)
		if err != nil {
			return 0, 0, err
		}
		repointed += rp
		deleted += del
	}

	tag, err := tx.Exec(ctx,
		"DELETE FROM albums WHERE id = ANY($1)", redIDs,
	)
	if err != nil {
		return 0, 0, MergeError("delete redundant albums", err)
	}
	if int(tag.RowsAffected()) != len(redIDs) {
		return 0, 0, MergeError(
			"delete redundant albums",
			fmt.Errorf("expected %d deletions, got %d",
				len(redIDs), tag.RowsAffected()),
		)
	}
	return repointed, deleted, nil
}

func mergeTable(
	ctx context.Context,
	tx pgx.Tx,
	t schema.DependentTable,
	canonicalID string,
	redIDs []string,
) (repointed, deleted int, err error) {
	// Drop redundant rows that collide with a canonical row on the
	// uniqueness key. With no extra key columns any canonical row is a
	// collision (one-row-per-album tables).
	canonical := fmt.Sprintf(
		`DELETE FROM %s r WHERE r.%s = ANY($1)
		 AND EXISTS (SELECT 1 FROM %s c WHERE c.%s = $2%s)`,
		t.Name, t.FK, t.Name, t.FK, uniqueJoin(t, "c", "r"),
	)
	tag, err := tx.Exec(ctx, canonical, redIDs, canonicalID)
	if err != nil {
		return 0, 0, MergeError("prune "+t.Name, err)
	}
	deleted += int(tag.RowsAffected())

	// Drop collisions among the redundant rows themselves, keeping the
	// physically first one per uniqueness key.
	among := fmt.Sprintf(
		`DELETE FROM %s r WHERE r.%s = ANY($1)
		 AND EXISTS (SELECT 1 FROM %s o
		   WHERE o.%s = ANY($1) AND o.ctid < r.ctid%s)`,
		t.Name, t.FK, t.Name, t.FK, uniqueJoin(t, "o", "r"),
	)
	tag, err = tx.Exec(ctx, among, redIDs)
	if err != nil {
		return 0, 0, MergeError("prune "+t.Name, err)
	}
	deleted += int(tag.RowsAffected())

	repoint := fmt.Sprintf(
		"UPDATE %s SET %s = $1 WHERE %s = ANY($2)",
		t.Name, t.FK, t.FK,
	)
	tag, err = tx.Exec(ctx, repoint, canonicalID, redIDs)
	if err != nil {
		return 0, 0, MergeError("re-point "+t.Name, err)
	}
	repointed += int(tag.RowsAffected())
	return repointed, deleted, nil
}

// uniqueJoin renders the uniqueness-key equality conditions between two
// table aliases.
func uniqueJoin(t schema.DependentTable, a, b string) string {
	var sb strings.Builder
	for _, col := range t.Unique {
		fmt.Fprintf(&sb, " AND %s.%s = %s.%s", a, col, b, col)
	}
	return sb.String()
}
