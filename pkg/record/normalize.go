package record

import (
	"strconv"
	"strings"
	"time"
)

// NormKey normalizes an identity string for cache keys and duplicate
// grouping: lowercased, trimmed, inner whitespace collapsed to single
// spaces. The same normalization must be used everywhere a key is
// produced, or cache hits and duplicate groups silently diverge.
func NormKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// DupKey builds the duplicate-group key for an album: normalized title,
// normalized artist, and release year. Records with a nil year use 0 so
// that two year-less duplicates still group together.
func DupKey(title, artist string, year *int) string {
	y := 0
	if year != nil {
		y = *year
	}
	return NormKey(title) + "\x1f" + NormKey(artist) + "\x1f" + strconv.Itoa(y)
}

// dateLayouts are tried in order by ParseReleaseDate.
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseReleaseDate parses a provider release-date string. It tolerates
// year, year-month and full-date precision. On failure it returns a nil
// year rather than an error: malformed dates degrade, they never abort
// a batch.
func ParseReleaseDate(s string) (year *int, date *time.Time) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y := t.Year()
		if y < 1000 || y > 9999 {
			return nil, nil
		}
		if layout == "2006-01-02" {
			return &y, &t
		}
		return &y, nil
	}
	// Last resort: a leading 4-digit year, e.g. "1994 (remaster)".
	if len(s) >= 4 {
		if y, err := strconv.Atoi(s[:4]); err == nil && y >= 1000 && y <= 9999 {
			return &y, nil
		}
	}
	return nil, nil
}

// PlaceholderDate reports whether t looks like a provider "unknown day"
// placeholder: exactly January 1 or December 31. Such dates carry year
// precision only and must not be used for in-year positioning.
func PlaceholderDate(t time.Time) bool {
	if t.Month() == time.January && t.Day() == 1 {
		return true
	}
	if t.Month() == time.December && t.Day() == 31 {
		return true
	}
	return false
}
