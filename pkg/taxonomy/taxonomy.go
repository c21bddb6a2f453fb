// Package taxonomy provides the fixed mapping tables used by the
// Normalizer, the enrichers and the spatial projector: free-text tag →
// genre family, country → region bucket, country → reference position,
// and the mood scoring rules. Tables are loaded once from embedded YAML
// and threaded through call sites as an immutable value; nothing in this
// package mutates process-wide state.
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/albummap/amdb/pkg/record"
	"gopkg.in/yaml.v3"
)

//go:embed data/genres.yaml
var genresYAML []byte

//go:embed data/regions.yaml
var regionsYAML []byte

//go:embed data/moods.yaml
var moodsYAML []byte

// GenreRule maps free-text tags to one genre family. Rules are evaluated
// in declaration order and the first rule with any matching tag wins;
// more specific rules must therefore appear before broader ones.
type GenreRule struct {
	Family string   `yaml:"family"`
	Match  []string `yaml:"match"`
}

// Country describes one country entry from regions.yaml.
type Country struct {
	// Name is the canonical English country name.
	Name string `yaml:"name"`

	// Code is the ISO 3166-1 alpha-2 code.
	Code string `yaml:"code"`

	// Region is the region bucket the country belongs to.
	Region string `yaml:"region"`

	// Ref is an optional finer-grained reference position in [0,1]
	// inside the region's band, used by the projector's country blend.
	// Negative means "no reference position".
	Ref float64 `yaml:"ref"`
}

// MoodRule assigns a mood value to records whose tags match. Evaluated
// in declaration order, first match wins.
type MoodRule struct {
	Value float64  `yaml:"value"`
	Match []string `yaml:"match"`
}

type genresFile struct {
	Rules []GenreRule `yaml:"rules"`
}

type regionsFile struct {
	Countries []Country `yaml:"countries"`
}

type moodsFile struct {
	Rules []MoodRule `yaml:"rules"`

	// EraDelta adjusts mood per release decade, keyed by decade start
	// year ("1950", "1960", ...).
	EraDelta map[string]float64 `yaml:"era_delta"`
}

// Tables holds every mapping table, fully parsed. A Tables value is
// immutable after Load and safe for concurrent readers.
type Tables struct {
	genreRules []GenreRule
	moodRules  []MoodRule
	eraDelta   map[int]float64

	byName map[string]Country
	byCode map[string]Country
}

// Load parses the embedded YAML tables. It fails only on a broken embed,
// which is a build defect, not a runtime condition.
func Load() (*Tables, error) {
	var gf genresFile
	if err := yaml.Unmarshal(genresYAML, &gf); err != nil {
		return nil, fmt.Errorf("taxonomy: cannot parse genres.yaml: %w", err)
	}
	var rf regionsFile
	if err := yaml.Unmarshal(regionsYAML, &rf); err != nil {
		return nil, fmt.Errorf("taxonomy: cannot parse regions.yaml: %w", err)
	}
	var mf moodsFile
	if err := yaml.Unmarshal(moodsYAML, &mf); err != nil {
		return nil, fmt.Errorf("taxonomy: cannot parse moods.yaml: %w", err)
	}

	t := &Tables{
		genreRules: gf.Rules,
		moodRules:  mf.Rules,
		eraDelta:   make(map[int]float64, len(mf.EraDelta)),
		byName:     make(map[string]Country, len(rf.Countries)),
		byCode:     make(map[string]Country, len(rf.Countries)),
	}
	for decade, delta := range mf.EraDelta {
		var y int
		if _, err := fmt.Sscanf(decade, "%d", &y); err != nil {
			return nil, fmt.Errorf("taxonomy: bad era_delta key %q", decade)
		}
		t.eraDelta[y] = delta
	}
	for _, c := range rf.Countries {
		if !record.Region(c.Region).IsValid() {
			return nil, fmt.Errorf(
				"taxonomy: country %q has unknown region %q", c.Name, c.Region,
			)
		}
		t.byName[record.NormKey(c.Name)] = c
		t.byCode[strings.ToUpper(c.Code)] = c
	}
	return t, nil
}

// FamilyForTags maps free-text tags to a genre family. Rules are walked
// in table declaration order; the first rule any tag matches wins, even
// when a later rule would be more specific (preserved source behavior).
// Matching is case-insensitive substring containment.
func (t *Tables) FamilyForTags(tags []string) (record.GenreFamily, bool) {
	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		lowered = append(lowered, strings.ToLower(tag))
	}
	for _, rule := range t.genreRules {
		for _, pat := range rule.Match {
			for _, tag := range lowered {
				if strings.Contains(tag, pat) {
					return record.GenreFamily(rule.Family), true
				}
			}
		}
	}
	return record.FamilyUnknown, false
}

// CountryByName looks up a country by canonical name (any case and
// spacing). The second value is false when the name is unknown.
func (t *Tables) CountryByName(name string) (Country, bool) {
	c, ok := t.byName[record.NormKey(name)]
	return c, ok
}

// CountryByCode looks up a country by ISO alpha-2 code.
func (t *Tables) CountryByCode(code string) (Country, bool) {
	c, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// ResolveCountry tries name lookup first, then code lookup. Raw provider
// metadata carries either form.
func (t *Tables) ResolveCountry(s string) (Country, bool) {
	if c, ok := t.CountryByName(s); ok {
		return c, true
	}
	return t.CountryByCode(s)
}

// RegionForCountry returns the region bucket for a country name or code.
func (t *Tables) RegionForCountry(s string) (record.Region, bool) {
	c, ok := t.ResolveCountry(s)
	if !ok {
		return "", false
	}
	return record.Region(c.Region), true
}

// RegionForLocale extracts the country part of a locale hint such as
// "en-JP" or "pt_BR" and resolves it to a region bucket.
func (t *Tables) RegionForLocale(locale string) (record.Region, bool) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "", false
	}
	parts := strings.FieldsFunc(locale, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return "", false
	}
	return t.RegionForCountry(parts[len(parts)-1])
}

// RefPosition returns the in-band reference position for a country, if
// the tables define one.
func (t *Tables) RefPosition(country string) (float64, bool) {
	c, ok := t.ResolveCountry(country)
	if !ok || c.Ref < 0 {
		return 0, false
	}
	return c.Ref, true
}

// MoodForTags derives the mood value from genre/tag text and release
// year. A record matching no mood rule receives the neutral default 0.5;
// the era delta then nudges the value by decade. The result is clamped
// into [0,1].
func (t *Tables) MoodForTags(tags []string, year *int) float64 {
	mood := 0.5
	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		lowered = append(lowered, strings.ToLower(tag))
	}
rules:
	for _, rule := range t.moodRules {
		for _, pat := range rule.Match {
			for _, tag := range lowered {
				if strings.Contains(tag, pat) {
					mood = rule.Value
					break rules
				}
			}
		}
	}
	if year != nil {
		decade := (*year / 10) * 10
		mood += t.eraDelta[decade]
	}
	return record.ClampUnit(mood)
}
