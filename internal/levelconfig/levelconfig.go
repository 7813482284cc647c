// Package levelconfig loads level catalogs (project-levels documents) into
// level.Configuration values. Built-in catalogs are embedded and addressed
// by module name; external catalogs are read from disk.
package levelconfig

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pthm/scalecheck/internal/level"
	"gopkg.in/yaml.v3"
)

// document mirrors the on-disk catalog format
type document struct {
	// Name identifies the catalog (e.g., "bmm", "bmgd")
	Name string `yaml:"name"`

	// FallbackLevel is recommended when a description matches nothing
	FallbackLevel *int `yaml:"fallback_level"`

	Levels map[int]levelDocument `yaml:"levels"`

	DetectionHints struct {
		// Keywords are keyed by "level_<id>"
		Keywords map[string][]string `yaml:"keywords"`

		// StoryCounts are [min, max] pairs keyed by "level_<id>"; a null max is unbounded
		StoryCounts map[string][]*int `yaml:"story_counts"`
	} `yaml:"detection_hints"`

	TestCases []Case `yaml:"test_cases"`
}

// Case is a golden classification shipped with a catalog
type Case struct {
	Description   string `yaml:"description"`
	Stories       *int   `yaml:"stories"`
	ExpectedLevel int    `yaml:"expected_level"`
}

type levelDocument struct {
	Title         string `yaml:"title"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Stories       string `yaml:"stories"`
	Documentation string `yaml:"documentation"`
	Architecture  bool   `yaml:"architecture"`
}

// Catalog is a parsed and validated level catalog
type Catalog struct {
	// Source is the module name or file path the catalog came from
	Source string

	Config *level.Configuration

	// Warnings lists tolerated problems such as hints for unknown levels
	Warnings []string

	// Cases are the catalog's golden classifications
	Cases []Case
}

var storiesPattern = regexp.MustCompile(`^\s*(\d+)\s*(?:(?:-|–|to)\s*(\d+)|(\+))?`)

// Parse parses and validates a catalog document
func Parse(data []byte, source string) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	cat := &Catalog{Source: source, Cases: doc.TestCases}
	cfg := &level.Configuration{
		Name:          doc.Name,
		FallbackLevel: doc.FallbackLevel,
		Hints: level.Hints{
			Keywords:   make(map[int][]string),
			SizeRanges: make(map[int]level.Range),
		},
	}
	if cfg.Name == "" {
		cfg.Name = source
	}

	ids := make([]int, 0, len(doc.Levels))
	for id := range doc.Levels {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		ld := doc.Levels[id]
		title := ld.Title
		if title == "" {
			title = ld.Name
		}

		display, err := ParseStories(ld.Stories)
		if err != nil {
			return nil, &level.ConfigurationError{Reason: fmt.Sprintf("%s: level %d: %v", source, id, err)}
		}

		cfg.Levels = append(cfg.Levels, level.Level{
			ID:            id,
			Title:         title,
			Description:   ld.Description,
			Stories:       ld.Stories,
			DisplayRange:  display,
			Documentation: ld.Documentation,
			Architecture:  ld.Architecture,
		})
	}

	for key, keywords := range doc.DetectionHints.Keywords {
		id, ok := levelKey(key)
		if !ok {
			cat.Warnings = append(cat.Warnings, fmt.Sprintf("ignoring keyword hints under malformed key %q", key))
			continue
		}
		normalized := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			normalized = append(normalized, strings.ToLower(strings.TrimSpace(kw)))
		}
		cfg.Hints.Keywords[id] = normalized
	}

	for key, bounds := range doc.DetectionHints.StoryCounts {
		id, ok := levelKey(key)
		if !ok {
			cat.Warnings = append(cat.Warnings, fmt.Sprintf("ignoring story count hint under malformed key %q", key))
			continue
		}
		r, err := storyCountRange(bounds)
		if err != nil {
			return nil, &level.ConfigurationError{Reason: fmt.Sprintf("%s: story_counts.%s: %v", source, key, err)}
		}
		cfg.Hints.SizeRanges[id] = r
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	for _, id := range cfg.UnknownHintLevels() {
		cat.Warnings = append(cat.Warnings, fmt.Sprintf("hints reference level %d which is not in the catalog", id))
	}
	sort.Strings(cat.Warnings)

	cat.Config = cfg
	return cat, nil
}

// ParseStories parses a display story count such as "1 story", "1-10 stories"
// or "40+ stories"
func ParseStories(s string) (level.Range, error) {
	m := storiesPattern.FindStringSubmatch(s)
	if m == nil {
		return level.Range{}, fmt.Errorf("cannot parse story count %q", s)
	}

	lo, _ := strconv.Atoi(m[1])
	switch {
	case m[3] == "+":
		return level.Range{Min: lo, Unbounded: true}, nil
	case m[2] != "":
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			return level.Range{}, fmt.Errorf("story count %q is inverted", s)
		}
		return level.Range{Min: lo, Max: hi}, nil
	default:
		return level.Range{Min: lo, Max: lo}, nil
	}
}

// levelKey extracts the level id from a "level_<id>" hint key
func levelKey(key string) (int, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(key), "level_")
	id, err := strconv.Atoi(trimmed)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func storyCountRange(bounds []*int) (level.Range, error) {
	if len(bounds) != 2 {
		return level.Range{}, fmt.Errorf("want [min, max], got %d values", len(bounds))
	}
	if bounds[0] == nil {
		return level.Range{}, fmt.Errorf("minimum is required")
	}
	if bounds[1] == nil {
		return level.Range{Min: *bounds[0], Unbounded: true}, nil
	}
	return level.Range{Min: *bounds[0], Max: *bounds[1]}, nil
}
