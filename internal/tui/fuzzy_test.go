package tui

import "testing"

func TestFuzzyMatch(t *testing.T) {
	cases := []struct {
		query, target string
		want          bool
	}{
		{"", "anything", true},
		{"fix", "Fix login bug", true},
		{"FLB", "fix login bug", true},
		{"lgn", "fix login bug", true},
		{"bug fix", "fix login bug", false},
		{"xyz", "fix login bug", false},
		{"a", "", false},
		{"déj", "Déjà vu review", true},
		{"q3", "Q3 report", true},
	}
	for _, tc := range cases {
		if got, _ := FuzzyMatch(tc.query, tc.target); got != tc.want {
			t.Errorf("FuzzyMatch(%q, %q) = %v, want %v", tc.query, tc.target, got, tc.want)
		}
	}
}

func TestFuzzyMatch_EmptyQueryScoresZero(t *testing.T) {
	if _, score := FuzzyMatch("", "x"); score != 0 {
		t.Fatalf("empty query score should be 0, got %d", score)
	}
}

func TestFuzzyMatch_Scoring(t *testing.T) {
	tests := []struct {
		name          string
		better, worse [2]string
	}{
		{"consecutive", [2]string{"rep", "report"}, [2]string{"rep", "rxexpxort"}},
		{"word boundary", [2]string{"b", "fix-bug"}, [2]string{"b", "fixabug"}},
		{"start", [2]string{"d", "deploy"}, [2]string{"d", "add"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hi := FuzzyMatch(tt.better[0], tt.better[1])
			_, lo := FuzzyMatch(tt.worse[0], tt.worse[1])
			if hi <= lo {
				t.Fatalf("expected %q in %q (%d) to beat %q in %q (%d)",
					tt.better[0], tt.better[1], hi, tt.worse[0], tt.worse[1], lo)
			}
		})
	}
}
