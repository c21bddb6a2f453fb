package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Album{},
		&AlbumDetail{},
		&Coordinate{},
		&AlbumLink{},
		&AlbumAward{},
		&AlbumCredit{},
		&AlbumRelease{},
		&UserInteraction{},
		&Review{},
		&Commentary{},
	}
}

// Migrate runs GORM AutoMigrate to create or update the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// DependentTable describes one table referencing albums.id, as the
// Deduplicator needs it: the table name, the FK column, and the columns
// (beyond the FK) forming the table's uniqueness key. An empty Unique
// slice means one-row-per-album.
type DependentTable struct {
	Name   string
	FK     string
	Unique []string
}

// DependentTables lists every table the Deduplicator must re-point when
// merging a duplicate group, in deletion-safe order.
func DependentTables() []DependentTable {
	return []DependentTable{
		{Name: "album_details", FK: "album_id"},
		{Name: "coordinates", FK: "album_id"},
		{Name: "commentaries", FK: "album_id"},
		{Name: "album_links", FK: "album_id", Unique: []string{"kind"}},
		{Name: "album_awards", FK: "album_id", Unique: []string{"award"}},
		{Name: "album_credits", FK: "album_id", Unique: []string{"person", "role"}},
		{Name: "album_releases", FK: "album_id", Unique: []string{"edition"}},
		{Name: "user_interactions", FK: "album_id", Unique: []string{"user_id", "kind"}},
		{Name: "reviews", FK: "album_id", Unique: []string{"user_id"}},
	}
}
