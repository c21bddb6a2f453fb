// Package ioproject applies the spatial projection in batch: it loads
// the enriched snapshot, computes the deterministic (x, y) position for
// every record and persists albums plus coordinates to the store. The
// layout is computed once per snapshot; per-record projection is pure
// and runs in parallel.
package ioproject

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/albummap/amdb/internal/iodb"
	"github.com/albummap/amdb/internal/iosnapshot"
	"github.com/albummap/amdb/pkg/config"
	"github.com/albummap/amdb/pkg/db"
	"github.com/albummap/amdb/pkg/projection"
	"github.com/albummap/amdb/pkg/record"
	"github.com/albummap/amdb/pkg/taxonomy"
	"golang.org/x/sync/errgroup"
)

// Result summarizes one projection run.
type Result struct {
	Records     int
	Bands       int
	Albums      int
	Coordinates int
}

type ioproject struct {
	op     db.Operator
	tables *taxonomy.Tables
}

// Projector computes and persists the album map positions.
type Projector interface {
	Project(ctx context.Context, cfg *config.Config) (*Result, error)
}

// New returns a Projector backed by a connected database operator.
func New(op db.Operator, tables *taxonomy.Tables) Projector {
	return &ioproject{op: op, tables: tables}
}

func (p *ioproject) Project(
	ctx context.Context,
	cfg *config.Config,
) (*Result, error) {
	if p.op.Pool() == nil {
		return nil, iodb.NotConnectedError()
	}

	inPath := latestSnapshot(cfg.ResolveDataDir())
	snap, err := iosnapshot.Must(inPath)
	if err != nil {
		return nil, err
	}

	opts := projection.Options{
		Width:   cfg.Projection.Width,
		Height:  cfg.Projection.Height,
		MinYear: cfg.Projection.MinYear,
		MaxYear: cfg.Projection.MaxYear,
	}
	layout := projection.NewLayout(snap.Records, p.tables, opts)
	slog.Info("Projecting snapshot",
		"path", inPath,
		"records", len(snap.Records),
		"bands", len(layout.Bands()),
	)

	coords, err := projectAll(ctx, layout, snap.Records)
	if err != nil {
		return nil, err
	}

	res := &Result{Records: len(snap.Records), Bands: len(layout.Bands())}
	batch := cfg.Database.BatchSize
	if res.Albums, err = p.persistAlbums(ctx, snap.Records, batch); err != nil {
		return nil, err
	}
	if res.Coordinates, err = p.persistCoordinates(
		ctx, coords, snap.GeneratedAt, batch,
	); err != nil {
		return nil, err
	}

	slog.Info("Persisted projection",
		"albums", res.Albums, "coordinates", res.Coordinates)
	return res, nil
}

// coordRow pairs one record id with its canvas position.
type coordRow struct {
	AlbumID string
	X, Y    float64
}

// projectAll computes every position in parallel. The layout is
// read-only after construction, so workers share it freely.
func projectAll(
	ctx context.Context,
	layout *projection.Layout,
	recs []*record.AlbumRecord,
) ([]coordRow, error) {
	coords := make([]coordRow, len(recs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, rec := range recs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			x, y := layout.Project(rec)
			coords[i] = coordRow{AlbumID: rec.ID, X: x, Y: y}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return coords, nil
}

// latestSnapshot prefers the fully enriched snapshot but accepts any
// earlier stage, so the map can be rebuilt mid-pipeline.
func latestSnapshot(dataDir string) string {
	for _, stage := range []string{
		iosnapshot.StageGeo,
		iosnapshot.StageGenres,
		iosnapshot.StageNormalized,
	} {
		path := iosnapshot.Path(dataDir, stage)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return iosnapshot.Path(dataDir, iosnapshot.StageGeo)
}
