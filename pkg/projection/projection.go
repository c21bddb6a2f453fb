// Package projection places enriched album records at deterministic 2D
// coordinates on a fixed virtual canvas. The X axis maps release time,
// the Y axis partitions the canvas into per-region bands sized by each
// region's share of the snapshot.
//
// Everything here is pure: a Layout is computed once per snapshot and is
// read-only afterwards, so callers may project records concurrently and
// many times per second. For fixed inputs the output is bit-for-bit
// reproducible; the hash pipeline is specified in hash.go.
package projection

import (
	"github.com/albummap/amdb/pkg/record"
	"github.com/albummap/amdb/pkg/taxonomy"
)

// Options fixes the virtual canvas and the year range. The zero value is
// not usable; start from DefaultOptions.
type Options struct {
	// Width and Height are canvas dimensions in virtual units.
	Width  float64
	Height float64

	// MinYear and MaxYear bound the X axis. Records outside the range
	// are clamped to its edges.
	MinYear int
	MaxYear int
}

// DefaultOptions returns the canvas every rendering client agrees on.
func DefaultOptions() Options {
	return Options{
		Width:   4000,
		Height:  2400,
		MinYear: 1950,
		MaxYear: 2024,
	}
}

// Band is one region's vertical slice of the canvas, in pixel units.
type Band struct {
	Region record.Region
	Y0     float64
	Y1     float64
	Count  int
}

// Height returns the band height in pixels.
func (b Band) Height() float64 { return b.Y1 - b.Y0 }

// Layout is the per-snapshot band partition plus the fixed options and
// mapping tables. Compute it once per snapshot with NewLayout and share
// it read-only between rendering goroutines; do not rebuild it per point.
type Layout struct {
	opts   Options
	tables *taxonomy.Tables
	bands  map[record.Region]Band
	order  []Band
}

// NewLayout partitions the canvas height into contiguous bands, one per
// region bucket that has at least one member in records. Band heights
// are proportional to each region's share of the total, stacked in the
// region enum's declaration order; zero-member regions get no band.
func NewLayout(
	records []*record.AlbumRecord,
	tables *taxonomy.Tables,
	opts Options,
) *Layout {
	counts := make(map[record.Region]int)
	total := 0
	for _, rec := range records {
		if !rec.Region.IsValid() {
			continue
		}
		counts[rec.Region]++
		total++
	}

	l := &Layout{
		opts:   opts,
		tables: tables,
		bands:  make(map[record.Region]Band),
	}
	if total == 0 {
		return l
	}

	y := 0.0
	for _, region := range record.Regions() {
		n := counts[region]
		if n == 0 {
			continue
		}
		h := opts.Height * float64(n) / float64(total)
		band := Band{Region: region, Y0: y, Y1: y + h, Count: n}
		l.bands[region] = band
		l.order = append(l.order, band)
		y += h
	}
	// Absorb float accumulation error so the last band closes the canvas.
	last := l.order[len(l.order)-1]
	last.Y1 = opts.Height
	l.bands[last.Region] = last
	l.order[len(l.order)-1] = last
	return l
}

// Bands returns the band partition in canvas order.
func (l *Layout) Bands() []Band { return l.order }

// Band returns the band for a region; ok is false when the region had no
// members in the snapshot the layout was built from.
func (l *Layout) Band(region record.Region) (Band, bool) {
	b, ok := l.bands[region]
	return b, ok
}

// Project maps one record to canvas coordinates. It performs no I/O and
// never mutates the layout; identical inputs always produce identical
// output.
func (l *Layout) Project(rec *record.AlbumRecord) (x, y float64) {
	return l.projectX(rec), l.projectY(rec)
}

// projectY computes the vertical position:
//
//  1. a bell-shaped unit value from the record id (see bellUnit), so
//     records cluster toward their band's midpoint;
//  2. a mood perturbation of at most ±5% of band height;
//  3. a 95/5 blend with the country reference position when the tables
//     define one for the record's country;
//  4. clamp to [0,1], then scale into the band's pixel range.
func (l *Layout) projectY(rec *record.AlbumRecord) float64 {
	band, ok := l.bands[rec.Region]
	if !ok {
		// Region absent from the layout's snapshot; the validator
		// guarantees this does not happen on real data. Degrade to the
		// full canvas so the point still lands somewhere deterministic.
		band = Band{Y0: 0, Y1: l.opts.Height}
	}

	pos := bellUnit(rec.ID)
	pos += (rec.Mood - 0.5) * 0.10
	if rec.HasCountry() && l.tables != nil {
		if ref, ok := l.tables.RefPosition(rec.Country); ok {
			pos = 0.95*pos + 0.05*ref
		}
	}
	pos = record.ClampUnit(pos)
	return band.Y0 + pos*band.Height()
}

// projectX maps the release year linearly across the configured year
// range. Within a year, an exact non-placeholder date positions the
// point by day of year; otherwise a hash-derived fraction in [0.1, 0.9]
// spreads unknown-date records across the year's slice.
func (l *Layout) projectX(rec *record.AlbumRecord) float64 {
	span := float64(l.opts.MaxYear - l.opts.MinYear + 1)

	year := l.opts.MinYear
	if rec.Year != nil {
		year = *rec.Year
		if year < l.opts.MinYear {
			year = l.opts.MinYear
		}
		if year > l.opts.MaxYear {
			year = l.opts.MaxYear
		}
	}

	frac := 0.1 + 0.8*unit(xSalt+rec.ID)
	if _, date := record.ParseReleaseDate(rec.ReleaseDate); date != nil {
		if !record.PlaceholderDate(*date) {
			frac = float64(date.YearDay()-1) / 366.0
		}
	}

	return (float64(year-l.opts.MinYear) + frac) / span * l.opts.Width
}
