package level

import (
	"fmt"
	"strings"
)

// Input is one classification request
type Input struct {
	Description string

	// EstimatedSize is the optional story count; nil means no numeric signal
	EstimatedSize *int
}

// LevelScore is the per-level evidence breakdown of a classification
type LevelScore struct {
	Level   int     `json:"level"`
	Keyword int     `json:"keyword_matches"`
	Size    *bool   `json:"size_match,omitempty"`
	Final   float64 `json:"score"`
}

// Result is the outcome of Classify. It is not modified after it is returned.
type Result struct {
	RecommendedLevel int      `json:"recommended_level"`
	Confidence       float64  `json:"confidence"`
	Reasoning        []string `json:"reasoning"`
	Level            Level    `json:"level_info"`

	// Fallback is set when no signal matched and the default level was used
	Fallback bool `json:"fallback"`

	// Scores lists every catalog level in configuration order
	Scores []LevelScore `json:"scores"`
}

// Classify recommends a level for the input. The configuration is validated
// first; no scoring happens when it is malformed.
func Classify(cfg *Configuration, in Input) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, &InvalidInputError{Reason: "description is empty"}
	}
	if in.EstimatedSize != nil && *in.EstimatedSize < 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("estimated size %d is negative", *in.EstimatedSize)}
	}

	keywordScores := ScoreKeywords(in.Description, cfg)
	sizeScores := ScoreSize(in.EstimatedSize, cfg)
	finalScores := Combine(keywordScores, sizeScores)

	recommended, fallback, err := Select(finalScores, cfg)
	if err != nil {
		return nil, err
	}
	info, ok := cfg.LevelByID(recommended)
	if !ok {
		return nil, configErrorf("recommended level %d is not in the catalog", recommended)
	}

	return &Result{
		RecommendedLevel: recommended,
		Confidence:       Confidence(finalScores),
		Reasoning:        Explain(keywordScores, sizeScores, cfg),
		Level:            info,
		Fallback:         fallback,
		Scores:           breakdown(keywordScores, sizeScores, finalScores, cfg),
	}, nil
}

// Explain lists the evidence behind a classification: first one line per
// level with keyword matches (naming all of that level's hints), then one
// line per level whose size range was satisfied. Both groups follow catalog
// order.
func Explain(keyword KeywordScores, size SizeScores, cfg *Configuration) []string {
	reasons := []string{}

	for _, l := range cfg.Levels {
		n := keyword[l.ID]
		if n == 0 {
			continue
		}
		noun := "keywords"
		if n == 1 {
			noun = "keyword"
		}
		reasons = append(reasons, fmt.Sprintf("Level %d: matched %d %s (%s)",
			l.ID, n, noun, strings.Join(cfg.Hints.Keywords[l.ID], ", ")))
	}

	for _, l := range cfg.Levels {
		if !size[l.ID] {
			continue
		}
		reasons = append(reasons, fmt.Sprintf("Level %d: estimated size within range %s",
			l.ID, cfg.Hints.SizeRanges[l.ID]))
	}

	return reasons
}

func breakdown(keyword KeywordScores, size SizeScores, final FinalScores, cfg *Configuration) []LevelScore {
	scores := make([]LevelScore, 0, len(cfg.Levels))
	for _, l := range cfg.Levels {
		ls := LevelScore{
			Level:   l.ID,
			Keyword: keyword[l.ID],
			Final:   final[l.ID],
		}
		if match, ok := size[l.ID]; ok {
			ls.Size = &match
		}
		scores = append(scores, ls)
	}
	return scores
}
