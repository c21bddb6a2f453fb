// Package record provides the canonical album record model shared by all
// pipeline stages. Provider-specific raw shapes are converted into
// AlbumRecord at the Normalizer boundary and never propagate past it.
package record

import (
	"time"
)

// CountryUnknown is the explicit placeholder for a country that has not
// been resolved yet. It distinguishes "not yet enriched" from "enriched
// to no result" (the latter is recorded in the enrichment cache).
const CountryUnknown = "unknown"

// Region is a coarse world region used both for display partitioning and
// as a mandatory structural field. Every record must carry a Region after
// normalization; the spatial layout partitions the canvas by Region.
type Region string

const (
	RegionNorthAmerica Region = "North America"
	RegionLatinAmerica Region = "Latin America"
	RegionSouthAmerica Region = "South America"
	RegionCaribbean    Region = "Caribbean"
	RegionEurope       Region = "Europe"
	RegionAfrica       Region = "Africa"
	RegionAsia         Region = "Asia"
	RegionOceania      Region = "Oceania"
)

// RegionDefault is assigned by the Normalizer when a record carries no
// geography signal at all. The bucket is still a real Region so the
// 100%-fill invariant holds before geography enrichment runs.
const RegionDefault = RegionNorthAmerica

// Regions returns all region buckets in declaration order. The order is
// load-bearing: the spatial layout stacks vertical bands in this order.
func Regions() []Region {
	return []Region{
		RegionNorthAmerica,
		RegionLatinAmerica,
		RegionSouthAmerica,
		RegionCaribbean,
		RegionEurope,
		RegionAfrica,
		RegionAsia,
		RegionOceania,
	}
}

// IsValid reports whether r is a member of the closed region enum.
func (r Region) IsValid() bool {
	for _, known := range Regions() {
		if r == known {
			return true
		}
	}
	return false
}

// GenreFamily is a top-level musical category. Free-text provider tags
// are mapped into families by the genre taxonomy tables.
type GenreFamily string

const (
	FamilyRock        GenreFamily = "Rock"
	FamilyPop         GenreFamily = "Pop"
	FamilyElectronic  GenreFamily = "Electronic"
	FamilyHipHop      GenreFamily = "Hip Hop"
	FamilyJazz        GenreFamily = "Jazz"
	FamilyRnBSoul     GenreFamily = "R&B/Soul"
	FamilyClassical   GenreFamily = "Classical"
	FamilyFolkWorld   GenreFamily = "Folk/World"
	FamilyLatin       GenreFamily = "Latin"
	FamilyMetal       GenreFamily = "Metal"
	FamilyAltIndie    GenreFamily = "Alternative/Indie"
	FamilyKPopAsiaPop GenreFamily = "K-pop/Asia Pop"
	FamilyUnknown     GenreFamily = "Unknown"
)

// Families returns the closed genre-family enum in declaration order,
// FamilyUnknown excluded.
func Families() []GenreFamily {
	return []GenreFamily{
		FamilyRock,
		FamilyPop,
		FamilyElectronic,
		FamilyHipHop,
		FamilyJazz,
		FamilyRnBSoul,
		FamilyClassical,
		FamilyFolkWorld,
		FamilyLatin,
		FamilyMetal,
		FamilyAltIndie,
		FamilyKPopAsiaPop,
	}
}

// AlbumRecord is the unit of work flowing through the pipeline.
// Identity is immutable once assigned; classification and geography are
// mutated only by the enrichment stages under the rules in their
// contracts (country is write-once, see SetCountry).
type AlbumRecord struct {
	// ID is a stable opaque identifier, provider-qualified:
	// "provider:kind:nativeId". Immutable once assigned.
	ID string `json:"id"`

	// Title is the album title as supplied by the originating provider.
	Title string `json:"title"`

	// Artist is the display name of the main credited artist.
	Artist string `json:"artist"`

	// ReleaseDate is the raw provider date string. It may carry only
	// year precision; parse it with ParseReleaseDate.
	ReleaseDate string `json:"releaseDate,omitempty"`

	// Year is the parsed release year; nil when the date is missing or
	// malformed. Records with a nil year are excluded from year-based
	// logic downstream.
	Year *int `json:"year,omitempty"`

	// TrackCount is the total number of tracks, 0 when unknown.
	TrackCount int `json:"trackCount,omitempty"`

	// ArtworkURL references the cover artwork.
	ArtworkURL string `json:"artworkUrl,omitempty"`

	// Genre is the primary genre free text as returned by a source.
	Genre string `json:"genre,omitempty"`

	// GenreTags holds up to three secondary free-text tags.
	GenreTags []string `json:"genreTags,omitempty"`

	// GenreFamily is the closed-enum classification; FamilyUnknown when
	// no source produced a usable classification.
	GenreFamily GenreFamily `json:"genreFamily,omitempty"`

	// GenreConfidence is in [0,1]; exactly 0 when GenreFamily is Unknown.
	GenreConfidence float64 `json:"genreConfidence"`

	// GenreSource identifies which stage/provider supplied the
	// classification ("lastfm", "discogs", "unknown").
	GenreSource string `json:"genreSource,omitempty"`

	// Country is the canonical geography field consumed by every
	// downstream layer. Once set to a non-placeholder value it is
	// read-only; mutate it only through SetCountry.
	Country string `json:"country,omitempty"`

	// CountryName is the display form of Country.
	CountryName string `json:"countryName,omitempty"`

	// CountrySource identifies the provider that supplied Country.
	CountrySource string `json:"countrySource,omitempty"`

	// CountryType distinguishes "artist-origin" from "release-country".
	CountryType string `json:"countryType,omitempty"`

	// Mood is a continuous [0,1] scalar summarizing sonic energy.
	// Always populated after normalization; clamped on write.
	Mood float64 `json:"mood"`

	// Region is the structural region bucket. Non-empty for every
	// record after the Normalizer has run (critical invariant).
	Region Region `json:"region,omitempty"`

	// Popularity is a bounded numeric signal used only for visual
	// sizing; it carries no correctness invariant.
	Popularity float64 `json:"popularity,omitempty"`
}

// HasCountry reports whether the record carries a trustworthy country,
// i.e. a non-empty value other than the explicit placeholder.
func (a *AlbumRecord) HasCountry() bool {
	return a.Country != "" && a.Country != CountryUnknown
}

// SetCountry writes the country fields, honoring the write-once rule:
// a pre-existing non-placeholder country is never overwritten. Returns
// true when the write was applied.
func (a *AlbumRecord) SetCountry(country, name, source, typ string) bool {
	if a.HasCountry() {
		return false
	}
	if country == "" {
		return false
	}
	a.Country = country
	a.CountryName = name
	a.CountrySource = source
	a.CountryType = typ
	return true
}

// HasGenre reports whether the record already carries a usable
// classification, i.e. a non-Unknown genre family. Enrichment skips
// such records (idempotence). Raw genre text alone does not count: it
// still needs mapping into the family enum.
func (a *AlbumRecord) HasGenre() bool {
	return a.GenreFamily != "" && a.GenreFamily != FamilyUnknown
}

// SetMood clamps v into [0,1] and stores it.
func (a *AlbumRecord) SetMood(v float64) {
	a.Mood = ClampUnit(v)
}

// ClampUnit clamps v into the [0,1] interval.
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Snapshot is one versioned pipeline artifact: the full record set a
// stage consumed or produced, plus bookkeeping.
type Snapshot struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Stage       string         `json:"stage,omitempty"`
	Stats       SnapshotStats  `json:"stats"`
	Records     []*AlbumRecord `json:"records"`
}

// SnapshotStats summarizes a snapshot for quick inspection without
// loading the record list.
type SnapshotStats struct {
	Total       int `json:"total"`
	WithGenre   int `json:"withGenre"`
	WithCountry int `json:"withCountry"`
	WithYear    int `json:"withYear"`
}

// Recount recalculates Stats from Records.
func (s *Snapshot) Recount() {
	st := SnapshotStats{Total: len(s.Records)}
	for _, rec := range s.Records {
		if rec.HasGenre() {
			st.WithGenre++
		}
		if rec.HasCountry() {
			st.WithCountry++
		}
		if rec.Year != nil {
			st.WithYear++
		}
	}
	s.Stats = st
}
