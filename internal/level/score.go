package level

import (
	"sort"
	"strings"
)

// Signal weights used by Combine
const (
	KeywordWeight       = 1.0
	SizeMatchBonus      = 2.0
	SizeMismatchPenalty = 0.5
)

// KeywordScores maps level id to the number of matched keyword hints
type KeywordScores map[int]int

// SizeScores maps level id to whether the estimate fell inside the level's
// size hint range. Levels without a range, or calls without an estimate,
// have no entry at all.
type SizeScores map[int]bool

// FinalScores maps level id to combined evidence weight
type FinalScores map[int]float64

// ScoreKeywords counts, per level, how many of its keyword hints match a
// token of the description. Tokens are whitespace-delimited and lower-cased;
// a hint matches when it contains a token or a token contains it. Each hint
// scores at most one point however many tokens it matches. Every catalog
// level has an entry, even at zero.
func ScoreKeywords(description string, cfg *Configuration) KeywordScores {
	words := strings.Fields(strings.ToLower(description))

	scores := make(KeywordScores, len(cfg.Levels))
	for _, l := range cfg.Levels {
		scores[l.ID] = 0

		for _, keyword := range cfg.Hints.Keywords[l.ID] {
			if matchesAny(words, strings.ToLower(keyword)) {
				scores[l.ID]++
			}
		}
	}

	return scores
}

func matchesAny(words []string, keyword string) bool {
	if keyword == "" {
		return false
	}
	for _, word := range words {
		if strings.Contains(word, keyword) || strings.Contains(keyword, word) {
			return true
		}
	}
	return false
}

// ScoreSize checks the estimate against each catalog level's size hint
// range. A nil estimate yields an empty map.
func ScoreSize(estimatedSize *int, cfg *Configuration) SizeScores {
	scores := make(SizeScores)
	if estimatedSize == nil {
		return scores
	}

	for _, l := range cfg.Levels {
		r, ok := cfg.Hints.SizeRanges[l.ID]
		if !ok {
			continue
		}
		scores[l.ID] = r.Contains(*estimatedSize)
	}

	return scores
}

// Combine merges keyword and size evidence. A confirmed size match adds
// SizeMatchBonus; a disconfirmed one scales the keyword score by
// SizeMismatchPenalty; a missing size entry leaves the keyword score as is.
// The result has exactly the keys of keyword.
func Combine(keyword KeywordScores, size SizeScores) FinalScores {
	final := make(FinalScores, len(keyword))

	for id, matches := range keyword {
		score := float64(matches) * KeywordWeight

		if match, ok := size[id]; ok {
			if match {
				score += SizeMatchBonus
			} else {
				score *= SizeMismatchPenalty
			}
		}

		final[id] = score
	}

	return final
}

// Select picks the level with the greatest score, scanning in catalog order
// so that ties go to the first level listed. When the greatest score is
// exactly zero there is no evidence at all and the configured fallback
// level is returned with fallback set.
func Select(final FinalScores, cfg *Configuration) (id int, fallback bool, err error) {
	maxScore := -1.0
	for _, l := range cfg.Levels {
		score, ok := final[l.ID]
		if !ok {
			continue
		}
		if score > maxScore {
			maxScore = score
			id = l.ID
		}
	}

	if maxScore <= 0 {
		id, err = cfg.Fallback()
		return id, true, err
	}
	return id, false, nil
}

// Confidence buckets the margin between the top two scores
func Confidence(final FinalScores) float64 {
	values := make([]float64, 0, len(final))
	for _, v := range final {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	var top, second float64
	if len(values) > 0 {
		top = values[0]
	}
	if len(values) > 1 {
		second = values[1]
	}

	switch {
	case top == 0:
		return 0.3
	case top-second >= 2.0:
		return 0.9
	case top-second >= 1.0:
		return 0.7
	default:
		return 0.5
	}
}
