package level

import (
	"reflect"
	"testing"
)

func TestScoreKeywords_EveryLevelPresent(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Hints.Keywords = map[int][]string{0: {"fix"}}

	scores := ScoreKeywords("nothing relevant here", cfg)
	if len(scores) != len(cfg.Levels) {
		t.Fatalf("len(scores) = %d, want %d", len(scores), len(cfg.Levels))
	}
	for _, l := range cfg.Levels {
		if score, ok := scores[l.ID]; !ok || score != 0 {
			t.Errorf("scores[%d] = %d, %v; want 0, true", l.ID, score, ok)
		}
	}
}

func TestScoreKeywords(t *testing.T) {
	tests := []struct {
		name        string
		description string
		keywords    []string
		want        int
	}{
		{"exact token", "fix the page", []string{"fix"}, 1},
		{"token contains keyword", "several logins failing", []string{"login"}, 1},
		{"keyword contains token", "check the log output", []string{"login"}, 1},
		{"multi-word keyword contains token", "small tweak", []string{"small change"}, 1},
		{"one point per keyword", "bug bugs bugfix", []string{"bug"}, 1},
		{"each listed keyword scores", "bug report", []string{"bug", "report"}, 2},
		{"repeated hint scores per occurrence", "bug", []string{"bug", "bug"}, 2},
		{"no match", "rewrite the docs", []string{"fix"}, 0},
		{"uppercase hint", "fix it", []string{"FIX"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fixtureConfig()
			cfg.Hints.Keywords = map[int][]string{2: tt.keywords}

			got := ScoreKeywords(tt.description, cfg)[2]
			if got != tt.want {
				t.Errorf("ScoreKeywords(%q)[2] = %d, want %d", tt.description, got, tt.want)
			}
		})
	}
}

func TestScoreKeywords_CaseInsensitive(t *testing.T) {
	cfg := fixtureConfig()

	upper := ScoreKeywords("Fix LOGIN bug", cfg)
	lower := ScoreKeywords("fix login bug", cfg)
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("scores differ by case: %v vs %v", upper, lower)
	}
	if upper[0] != 2 {
		t.Errorf("scores[0] = %d, want 2", upper[0])
	}
}

func TestScoreKeywords_IgnoresUnknownLevels(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Hints.Keywords[42] = []string{"fix"}

	scores := ScoreKeywords("fix", cfg)
	if _, ok := scores[42]; ok {
		t.Error("scores contain unknown level 42")
	}
	if len(scores) != len(cfg.Levels) {
		t.Errorf("len(scores) = %d, want %d", len(scores), len(cfg.Levels))
	}
}

func TestScoreSize(t *testing.T) {
	cfg := fixtureConfig()

	t.Run("no estimate", func(t *testing.T) {
		if got := ScoreSize(nil, cfg); len(got) != 0 {
			t.Errorf("ScoreSize(nil) = %v, want empty", got)
		}
	})

	t.Run("inclusive boundaries", func(t *testing.T) {
		got := ScoreSize(intPtr(15), cfg)
		want := SizeScores{0: false, 1: false, 2: true, 3: true, 4: false}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ScoreSize(15) = %v, want %v", got, want)
		}

		got = ScoreSize(intPtr(40), cfg)
		if !got[3] || !got[4] {
			t.Errorf("ScoreSize(40) = %v, want levels 3 and 4 true", got)
		}
	})

	t.Run("levels without range omitted", func(t *testing.T) {
		cfg := fixtureConfig()
		delete(cfg.Hints.SizeRanges, 3)

		got := ScoreSize(intPtr(20), cfg)
		if _, ok := got[3]; ok {
			t.Error("level 3 has an entry despite having no range")
		}
		if len(got) != 4 {
			t.Errorf("len = %d, want 4", len(got))
		}
	})
}

func TestCombine(t *testing.T) {
	keyword := KeywordScores{0: 1, 1: 2, 2: 3, 3: 0}
	size := SizeScores{0: true, 1: false, 3: true}

	got := Combine(keyword, size)
	want := FinalScores{
		0: 3.0, // 1 + 2.0 bonus
		1: 1.0, // 2 * 0.5 penalty
		2: 3.0, // no size entry
		3: 2.0, // 0 + 2.0 bonus
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Combine() = %v, want %v", got, want)
	}
}

func TestCombine_PenaltyDoesNotEliminate(t *testing.T) {
	cfg := fixtureConfig()

	// Estimate 3 only fits level 1, but level 3 has four keyword hits.
	cfg.Hints.Keywords[3] = []string{"system", "product", "platform", "integration"}
	keyword := ScoreKeywords("platform integration system product", cfg)
	final := Combine(keyword, ScoreSize(intPtr(3), cfg))

	if final[3] != 2.0 {
		t.Errorf("final[3] = %v, want 2.0", final[3])
	}
	if final[1] != 2.0 {
		t.Errorf("final[1] = %v, want 2.0", final[1])
	}
}

func TestSelect(t *testing.T) {
	cfg := fixtureConfig()

	t.Run("greatest wins", func(t *testing.T) {
		id, fallback, err := Select(FinalScores{0: 1, 1: 0.5, 2: 3, 3: 2.5, 4: 0}, cfg)
		if err != nil || id != 2 || fallback {
			t.Errorf("Select() = %d, %v, %v; want 2, false, nil", id, fallback, err)
		}
	})

	t.Run("tie goes to first in catalog order", func(t *testing.T) {
		id, fallback, err := Select(FinalScores{0: 0, 1: 0, 2: 2, 3: 2, 4: 2}, cfg)
		if err != nil || id != 2 || fallback {
			t.Errorf("Select() = %d, %v, %v; want 2, false, nil", id, fallback, err)
		}
	})

	t.Run("zero evidence uses fallback", func(t *testing.T) {
		id, fallback, err := Select(FinalScores{0: 0, 1: 0, 2: 0, 3: 0, 4: 0}, cfg)
		if err != nil || id != 1 || !fallback {
			t.Errorf("Select() = %d, %v, %v; want 1, true, nil", id, fallback, err)
		}
	})

	t.Run("zero evidence ignores catalog order", func(t *testing.T) {
		reversed := fixtureConfig()
		for i, j := 0, len(reversed.Levels)-1; i < j; i, j = i+1, j-1 {
			reversed.Levels[i], reversed.Levels[j] = reversed.Levels[j], reversed.Levels[i]
		}
		id, fallback, err := Select(FinalScores{0: 0, 1: 0, 2: 0, 3: 0, 4: 0}, reversed)
		if err != nil || id != 1 || !fallback {
			t.Errorf("Select() = %d, %v, %v; want 1, true, nil", id, fallback, err)
		}
	})
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		scores FinalScores
		want   float64
	}{
		{"decisive margin", FinalScores{0: 5.0, 1: 2.0}, 0.9},
		{"narrow margin", FinalScores{0: 5.0, 1: 4.2}, 0.5},
		{"moderate margin", FinalScores{0: 5.0, 1: 3.9}, 0.7},
		{"no evidence", FinalScores{0: 0.0, 1: 0.0}, 0.3},
		{"exact margin of two", FinalScores{0: 3.0, 1: 1.0, 2: 0}, 0.9},
		{"exact margin of one", FinalScores{0: 2.0, 1: 1.0}, 0.7},
		{"tie", FinalScores{0: 2.0, 1: 2.0}, 0.5},
		{"single level", FinalScores{0: 1.0}, 0.7},
		{"empty", FinalScores{}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Confidence(tt.scores); got != tt.want {
				t.Errorf("Confidence(%v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}
