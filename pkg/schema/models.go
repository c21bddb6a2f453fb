// Package schema provides the album-store models for GORM AutoMigrate.
// The Deduplicator's dependent-table walk is driven by DependentTables,
// so a new dependent table added here must also be registered there.
package schema

import (
	"time"
)

// Album is the top-level record row. ID matches AlbumRecord.ID
// (provider-qualified opaque id).
type Album struct {
	ID     string `gorm:"primaryKey;size:255"`
	Title  string `gorm:"size:512;not null;index:idx_albums_dup,priority:1"`
	Artist string `gorm:"size:512;not null;index:idx_albums_dup,priority:2"`

	ReleaseDate string `gorm:"size:50"`
	Year        *int   `gorm:"index:idx_albums_dup,priority:3"`
	TrackCount  int
	ArtworkURL  string `gorm:"size:1024"`

	Genre           string `gorm:"size:255"`
	GenreFamily     string `gorm:"size:50;index"`
	GenreConfidence float64
	GenreSource     string `gorm:"size:50"`

	Country       string `gorm:"size:100"`
	CountryName   string `gorm:"size:100"`
	CountrySource string `gorm:"size:50"`
	CountryType   string `gorm:"size:50"`

	Mood       float64
	Region     string `gorm:"size:50;index"`
	Popularity float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AlbumDetail caches the full provider payload for one album. One row
// per album.
type AlbumDetail struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex"`
	Payload string `gorm:"type:text"`

	FetchedAt time.Time
}

// Coordinate is the persisted projection result. One row per album.
type Coordinate struct {
	ID      uint    `gorm:"primaryKey"`
	AlbumID string  `gorm:"size:255;not null;uniqueIndex"`
	X       float64 `gorm:"not null"`
	Y       float64 `gorm:"not null"`

	// SnapshotAt records which snapshot the layout was computed from;
	// coordinates are only comparable within one snapshot.
	SnapshotAt time.Time
}

// AlbumLink is an external link for an album (store page, encyclopedia
// entry). Unique per (album, kind).
type AlbumLink struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex:idx_links_album_kind,priority:1"`
	Kind    string `gorm:"size:50;not null;uniqueIndex:idx_links_album_kind,priority:2"`
	URL     string `gorm:"size:1024;not null"`
}

// AlbumAward records an award or list placement. Unique per
// (album, award).
type AlbumAward struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex:idx_awards_album_award,priority:1"`
	Award   string `gorm:"size:255;not null;uniqueIndex:idx_awards_album_award,priority:2"`
	Year    *int
}

// AlbumCredit attributes a person/role pair to an album. Unique per
// (album, person, role).
type AlbumCredit struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex:idx_credits_key,priority:1"`
	Person  string `gorm:"size:255;not null;uniqueIndex:idx_credits_key,priority:2"`
	Role    string `gorm:"size:100;not null;uniqueIndex:idx_credits_key,priority:3"`
}

// AlbumRelease is one physical/digital issue of an album. Unique per
// (album, edition).
type AlbumRelease struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex:idx_releases_key,priority:1"`
	Edition string `gorm:"size:255;not null;uniqueIndex:idx_releases_key,priority:2"`
	Country string `gorm:"size:100"`
	Year    *int
}

// UserInteraction is a per-user signal (favorite, listen, rating).
// Unique per (album, user, kind).
type UserInteraction struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex:idx_interactions_key,priority:1"`
	UserID  string `gorm:"size:255;not null;uniqueIndex:idx_interactions_key,priority:2"`
	Kind    string `gorm:"size:50;not null;uniqueIndex:idx_interactions_key,priority:3"`
	Value   float64

	CreatedAt time.Time
}

// Review is a user review. Unique per (album, user).
type Review struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex:idx_reviews_key,priority:1"`
	UserID  string `gorm:"size:255;not null;uniqueIndex:idx_reviews_key,priority:2"`
	Rating  int
	Body    string `gorm:"type:text"`

	CreatedAt time.Time
}

// Commentary is the AI-generated album commentary. One row per album.
type Commentary struct {
	ID      uint   `gorm:"primaryKey"`
	AlbumID string `gorm:"size:255;not null;uniqueIndex"`
	Body    string `gorm:"type:text"`
	Model   string `gorm:"size:100"`

	GeneratedAt time.Time
}
