package reporter

import (
	"encoding/json"
	"io"

	"github.com/pthm/scalecheck/internal/level"
)

// JSONReporter outputs results as JSON
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Detections []JSONDetection `json:"detections"`
	Summary    Summary         `json:"summary"`
}

// JSONDetection represents a detection in JSON format
type JSONDetection struct {
	Source           string        `json:"source,omitempty"`
	Name             string        `json:"name,omitempty"`
	Description      string        `json:"description"`
	EstimatedStories *int          `json:"estimated_stories,omitempty"`
	Result           *level.Result `json:"result,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// Report outputs detections as JSON
func (r *JSONReporter) Report(detections []Detection) error {
	output := JSONOutput{
		Detections: make([]JSONDetection, 0, len(detections)),
		Summary:    ComputeSummary(detections),
	}

	for _, d := range detections {
		jd := JSONDetection{
			Source:           d.Source,
			Name:             d.Name,
			Description:      d.Description,
			EstimatedStories: d.EstimatedSize,
			Result:           d.Result,
		}
		if d.Err != nil {
			jd.Error = d.Err.Error()
			jd.Result = nil
		}
		output.Detections = append(output.Detections, jd)
	}

	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
