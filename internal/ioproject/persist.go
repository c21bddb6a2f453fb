package ioproject

import (
	"context"
	"time"

	"github.com/albummap/amdb/pkg/record"
	"github.com/jackc/pgx/v5"
)

const upsertAlbum = `
INSERT INTO albums (
  id, title, artist, release_date, year, track_count, artwork_url,
  genre, genre_family, genre_confidence, genre_source,
  country, country_name, country_source, country_type,
  mood, region, popularity, created_at, updated_at
) VALUES (
  $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
  $11, $12, $13, $14, $15, $16, $17, $18, now(), now()
)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  artist = EXCLUDED.artist,
  release_date = EXCLUDED.release_date,
  year = EXCLUDED.year,
  track_count = EXCLUDED.track_count,
  artwork_url = EXCLUDED.artwork_url,
  genre = EXCLUDED.genre,
  genre_family = EXCLUDED.genre_family,
  genre_confidence = EXCLUDED.genre_confidence,
  genre_source = EXCLUDED.genre_source,
  country = EXCLUDED.country,
  country_name = EXCLUDED.country_name,
  country_source = EXCLUDED.country_source,
  country_type = EXCLUDED.country_type,
  mood = EXCLUDED.mood,
  region = EXCLUDED.region,
  popularity = EXCLUDED.popularity,
  updated_at = now()`

const upsertCoordinate = `
INSERT INTO coordinates (album_id, x, y, snapshot_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (album_id) DO UPDATE SET
  x = EXCLUDED.x,
  y = EXCLUDED.y,
  snapshot_at = EXCLUDED.snapshot_at`

// persistAlbums upserts the snapshot records into the albums table in
// batches. created_at is preserved on conflict so the Deduplicator's
// canonical election stays stable.
func (p *ioproject) persistAlbums(
	ctx context.Context,
	recs []*record.AlbumRecord,
	batchSize int,
) (int, error) {
	if batchSize < 1 {
		batchSize = len(recs)
	}
	var n int
	for start := 0; start < len(recs); start += batchSize {
		end := min(start+batchSize, len(recs))
		b := &pgx.Batch{}
		for _, rec := range recs[start:end] {
			b.Queue(upsertAlbum,
				rec.ID, rec.Title, rec.Artist, rec.ReleaseDate, rec.Year,
				rec.TrackCount, rec.ArtworkURL,
				rec.Genre, string(rec.GenreFamily), rec.GenreConfidence,
				rec.GenreSource,
				rec.Country, rec.CountryName, rec.CountrySource,
				rec.CountryType,
				rec.Mood, string(rec.Region), rec.Popularity,
			)
		}
		if err := p.sendBatch(ctx, b); err != nil {
			return n, PersistError("albums", err)
		}
		n += end - start
	}
	return n, nil
}

// persistCoordinates upserts the computed positions, stamped with the
// snapshot generation time they were derived from.
func (p *ioproject) persistCoordinates(
	ctx context.Context,
	coords []coordRow,
	snapshotAt time.Time,
	batchSize int,
) (int, error) {
	if batchSize < 1 {
		batchSize = len(coords)
	}
	var n int
	for start := 0; start < len(coords); start += batchSize {
		end := min(start+batchSize, len(coords))
		b := &pgx.Batch{}
		for _, c := range coords[start:end] {
			b.Queue(upsertCoordinate, c.AlbumID, c.X, c.Y, snapshotAt)
		}
		if err := p.sendBatch(ctx, b); err != nil {
			return n, PersistError("coordinates", err)
		}
		n += end - start
	}
	return n, nil
}

func (p *ioproject) sendBatch(ctx context.Context, b *pgx.Batch) error {
	br := p.op.Pool().SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
