// Package estimator asks a language model for a story-count estimate when
// the user supplies a description without one. The estimate is only an
// input to the rule-based classifier; it never picks a level itself.
package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Estimator produces a story-count estimate for a project description
type Estimator interface {
	Estimate(ctx context.Context, description string) (int, error)
}

// ErrUnavailable is returned when an estimator's backend cannot be reached
// at all (missing API key, CLI not installed)
var ErrUnavailable = errors.New("estimator unavailable")

// Kinds of estimator accepted by New
const (
	KindAPI        = "api"
	KindClaudeCode = "claude-code"
)

// Options configure New
type Options struct {
	APIKey string
	Model  string
}

// New creates the estimator of the given kind
func New(kind string, opts Options) (Estimator, error) {
	switch kind {
	case KindAPI:
		return NewAnthropicEstimator(opts.APIKey, opts.Model)
	case KindClaudeCode:
		return NewClaudeCodeEstimator(opts.Model), nil
	default:
		return nil, fmt.Errorf("unknown estimator %q (want %s or %s)", kind, KindAPI, KindClaudeCode)
	}
}

const promptTemplate = `Estimate how many user stories the following software project needs.
Count only implementation stories a small agile team would write, not epics or tasks.

Project description:
%s

Respond with a JSON object of the form {"estimated_stories": <whole number>}.
Return ONLY the JSON, no other text.`

// Prompt builds the estimation prompt for a description
func Prompt(description string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(description))
}

type response struct {
	EstimatedStories *float64 `json:"estimated_stories"`
}

// ParseEstimate reads the story count out of a model response, which may be
// wrapped in a markdown code fence or surrounded by prose
func ParseEstimate(text string) (int, error) {
	var resp response
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &resp); err != nil {
		return 0, fmt.Errorf("failed to parse estimate %q: %w", truncate(text), err)
	}
	if resp.EstimatedStories == nil {
		return 0, fmt.Errorf("response has no estimated_stories: %q", truncate(text))
	}

	n := *resp.EstimatedStories
	if n < 0 || n != float64(int(n)) {
		return 0, fmt.Errorf("estimated_stories must be a non-negative whole number, got %v", n)
	}
	return int(n), nil
}

// ExtractJSON attempts to extract JSON from a response that might be wrapped in markdown
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") {
		return s
	}

	if idx := strings.Index(s, "```json"); idx != -1 {
		start := idx + 7
		if end := strings.Index(s[start:], "```"); end != -1 {
			return strings.TrimSpace(s[start : start+end])
		}
	}

	if idx := strings.Index(s, "```"); idx != -1 {
		start := idx + 3
		// Skip any language identifier
		if nl := strings.Index(s[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(s[start:], "```"); end != -1 {
			return strings.TrimSpace(s[start : start+end])
		}
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}

	return s
}

func truncate(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
