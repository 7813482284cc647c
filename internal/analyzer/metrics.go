package analyzer

import (
	"errors"

	"github.com/pthm/scalecheck/internal/parser"
)

// Metrics contains counts about a scanned directory
type Metrics struct {
	TotalFiles      int
	Briefs          int
	Skipped         int
	Failed          int
	FilesByCategory map[string]int
}

// Outcome is the result of extracting one candidate's brief
type Outcome struct {
	Candidate Candidate
	Brief     *parser.Brief
	Err       error
}

// Skipped reports whether the candidate simply had no description
func (o Outcome) Skipped() bool {
	return o.Err != nil && errors.Is(o.Err, parser.ErrNoDescription)
}

// ComputeMetrics computes metrics for a set of outcomes
func ComputeMetrics(outcomes []Outcome) *Metrics {
	m := &Metrics{
		FilesByCategory: make(map[string]int),
	}

	for _, o := range outcomes {
		m.TotalFiles++
		m.FilesByCategory[o.Candidate.Category.String()]++

		switch {
		case o.Err == nil:
			m.Briefs++
		case o.Skipped():
			m.Skipped++
		default:
			m.Failed++
		}
	}

	return m
}
