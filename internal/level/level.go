// Package level implements the scale level classification engine.
//
// A description and an optional story estimate are scored against a
// Configuration of levels and hints; the result names the recommended
// level together with a bucketed confidence and the evidence behind it.
// Every function in this package is pure: the Configuration is read, never
// written, so a single Configuration may be shared by concurrent callers.
package level

import (
	"fmt"
	"sort"
)

// Range is an inclusive range of story counts
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max,omitempty" yaml:"max,omitempty"`

	// Unbounded ranges have no upper limit; Max is ignored
	Unbounded bool `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
}

// Contains reports whether n lies within the range, inclusive at both ends
func (r Range) Contains(n int) bool {
	if n < r.Min {
		return false
	}
	return r.Unbounded || n <= r.Max
}

func (r Range) String() string {
	if r.Unbounded {
		return fmt.Sprintf("%d+", r.Min)
	}
	if r.Min == r.Max {
		return fmt.Sprintf("%d", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Level is one classification bucket in a catalog
type Level struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Stories is the display text for the expected work-item count
	Stories      string `json:"stories"`
	DisplayRange Range  `json:"display_range"`

	// Documentation and Architecture are process guidance passed through untouched
	Documentation string `json:"documentation"`
	Architecture  bool   `json:"architecture"`
}

// Hints is the detection hint table, joined to the level catalog by level id.
// Entries for ids that are not in the catalog are ignored by scoring.
type Hints struct {
	Keywords   map[int][]string
	SizeRanges map[int]Range
}

// Configuration is an immutable level catalog plus its detection hints
type Configuration struct {
	Name   string
	Levels []Level
	Hints  Hints

	// FallbackLevel is recommended when no signal matches any level.
	// When nil, Fallback picks level 1 if present, else the lowest id.
	FallbackLevel *int
}

// LevelByID returns the level with the given id
func (c *Configuration) LevelByID(id int) (Level, bool) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}

// Fallback returns the level recommended when there is no evidence at all
func (c *Configuration) Fallback() (int, error) {
	if len(c.Levels) == 0 {
		return 0, configErrorf("no levels defined")
	}
	if c.FallbackLevel != nil {
		if _, ok := c.LevelByID(*c.FallbackLevel); !ok {
			return 0, configErrorf("fallback level %d is not in the catalog", *c.FallbackLevel)
		}
		return *c.FallbackLevel, nil
	}
	if _, ok := c.LevelByID(1); ok {
		return 1, nil
	}
	lowest := c.Levels[0].ID
	for _, l := range c.Levels[1:] {
		if l.ID < lowest {
			lowest = l.ID
		}
	}
	return lowest, nil
}

// Validate checks the structural invariants of the configuration.
// Hint entries that name unknown levels are tolerated; see UnknownHintLevels.
func (c *Configuration) Validate() error {
	if c == nil || len(c.Levels) == 0 {
		return configErrorf("no levels defined")
	}

	seen := make(map[int]bool, len(c.Levels))
	for _, l := range c.Levels {
		if l.ID < 0 {
			return configErrorf("level %d: id must be non-negative", l.ID)
		}
		if seen[l.ID] {
			return configErrorf("duplicate level id %d", l.ID)
		}
		seen[l.ID] = true
		if l.Title == "" {
			return configErrorf("level %d: missing title", l.ID)
		}
	}

	for id, keywords := range c.Hints.Keywords {
		for _, kw := range keywords {
			if kw == "" {
				return configErrorf("level %d: empty keyword hint", id)
			}
		}
	}

	for id, r := range c.Hints.SizeRanges {
		if r.Min < 0 {
			return configErrorf("level %d: size range minimum %d is negative", id, r.Min)
		}
		if !r.Unbounded && r.Max < r.Min {
			return configErrorf("level %d: size range %d-%d is inverted", id, r.Min, r.Max)
		}
	}

	if _, err := c.Fallback(); err != nil {
		return err
	}
	return nil
}

// UnknownHintLevels returns the sorted ids referenced by hints but missing
// from the catalog
func (c *Configuration) UnknownHintLevels() []int {
	known := make(map[int]bool, len(c.Levels))
	for _, l := range c.Levels {
		known[l.ID] = true
	}

	unknown := make(map[int]bool)
	for id := range c.Hints.Keywords {
		if !known[id] {
			unknown[id] = true
		}
	}
	for id := range c.Hints.SizeRanges {
		if !known[id] {
			unknown[id] = true
		}
	}

	ids := make([]int, 0, len(unknown))
	for id := range unknown {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
