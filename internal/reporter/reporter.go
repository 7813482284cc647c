package reporter

import (
	"sort"

	"github.com/pthm/scalecheck/internal/level"
)

// Detection is one classified (or failed) description
type Detection struct {
	// Source is the file the description came from, empty for direct input
	Source        string
	Name          string
	Description   string
	EstimatedSize *int

	// Result is nil when Err is set
	Result *level.Result
	Err    error
}

// Reporter defines the interface for outputting detection results
type Reporter interface {
	// Report outputs the detection results
	Report(detections []Detection) error
}

// Summary holds summary statistics for a detection run
type Summary struct {
	Total             int         `json:"total"`
	Classified        int         `json:"classified"`
	Failed            int         `json:"failed"`
	Fallbacks         int         `json:"fallbacks"`
	ByLevel           map[int]int `json:"by_level"`
	AverageConfidence float64     `json:"average_confidence"`
}

// Levels returns the levels that received at least one detection, ascending
func (s Summary) Levels() []int {
	ids := make([]int, 0, len(s.ByLevel))
	for id := range s.ByLevel {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ComputeSummary computes summary statistics from detections
func ComputeSummary(detections []Detection) Summary {
	s := Summary{
		Total:   len(detections),
		ByLevel: make(map[int]int),
	}

	var confidence float64
	for _, d := range detections {
		if d.Err != nil || d.Result == nil {
			s.Failed++
			continue
		}
		s.Classified++
		s.ByLevel[d.Result.RecommendedLevel]++
		confidence += d.Result.Confidence
		if d.Result.Fallback {
			s.Fallbacks++
		}
	}
	if s.Classified > 0 {
		s.AverageConfidence = confidence / float64(s.Classified)
	}

	return s
}
