package identity

import (
	"testing"

	"github.com/hhgops/ackbot/internal/store"
)

func pool(names ...string) []store.Employee {
	var out []store.Employee
	for i, n := range names {
		out = append(out, store.Employee{ID: int64(i + 1), FullName: n})
	}
	return out
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"john smith", "john smith", 1.0},
		{"john smith", "jon smith", 0.9},
		{"jhn doe", "john doe", 0.875},
		{"", "", 1.0},
		{"abc", "", 0.0},
	}

	for _, tt := range tests {
		if got := ratio(tt.a, tt.b); got != tt.want {
			t.Errorf("ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRank_TypoGetsSuggested(t *testing.T) {
	sc := DefaultScoring()

	got := Rank("John Smith", pool("Jon Smith"), sc)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].FullName != "Jon Smith" {
		t.Errorf("candidate = %q, want Jon Smith", got[0].FullName)
	}
	if got[0].Score < sc.MinScore {
		t.Errorf("score %v below threshold %v", got[0].Score, sc.MinScore)
	}
}

func TestRank_MatchingTokenEarnsBonus(t *testing.T) {
	sc := DefaultScoring()

	// Shared last name "Smith" triggers the flat token bonus.
	got := Rank("John Smith", pool("Jon Smith"), sc)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	want := 0.9 + sc.TokenBonus
	if got[0].Score != want {
		t.Errorf("score = %v, want %v (ratio 0.9 + token bonus)", got[0].Score, want)
	}
}

func TestRank_UnrelatedNameYieldsNothing(t *testing.T) {
	got := Rank("Zzyzx Qqrst", pool("John Doe", "Jane Doe", "Bob Ross"), DefaultScoring())
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0: %+v", len(got), got)
	}
}

func TestRank_SortedDescendingAndCapped(t *testing.T) {
	sc := DefaultScoring()

	got := Rank("Jane Doe", pool("Jane Does", "Jan Doe", "Jane Roe", "Jayne Doe"), sc)
	if len(got) != sc.MaxSuggestions {
		t.Fatalf("got %d candidates, want cap %d", len(got), sc.MaxSuggestions)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("candidates not sorted descending: %v before %v", got[i-1], got[i])
		}
	}
}

func TestRank_ConfigurableThreshold(t *testing.T) {
	sc := DefaultScoring()
	sc.MinScore = 1.1

	got := Rank("John Smith", pool("Jon Smith"), sc)
	if len(got) != 0 {
		t.Errorf("raised threshold should exclude the typo candidate, got %+v", got)
	}
}

func TestRank_ExactNameScoresHighest(t *testing.T) {
	got := Rank("Jane Doe", pool("Jan Doe", "Jane Doe"), DefaultScoring())
	if len(got) == 0 {
		t.Fatal("expected candidates")
	}
	if got[0].FullName != "Jane Doe" {
		t.Errorf("top candidate = %q, want exact name first", got[0].FullName)
	}
}
