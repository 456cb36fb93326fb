package identity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/hhgops/ackbot/internal/store"
)

// Scoring holds the similarity knobs for suggestion ranking. The values
// are a product decision, so they arrive from configuration; the defaults
// are the constants the bot has always shipped with.
type Scoring struct {
	// MinScore is the combined score below which a roster name is not
	// suggested at all.
	MinScore float64
	// TokenBonus is added once when any whitespace token of the input
	// closely matches any token of the stored name.
	TokenBonus float64
	// TokenThreshold is the per-token similarity ratio above which the
	// bonus applies.
	TokenThreshold float64
	// MaxSuggestions caps the ranked candidate list.
	MaxSuggestions int
}

// DefaultScoring returns the historical scoring constants.
func DefaultScoring() Scoring {
	return Scoring{
		MinScore:       0.6,
		TokenBonus:     0.15,
		TokenThreshold: 0.8,
		MaxSuggestions: 3,
	}
}

// Candidate is a transient near-miss produced when exact resolution fails.
// Never persisted; used solely to shape the suggestion reply.
type Candidate struct {
	EmployeeID int64
	FullName   string
	Score      float64
}

// Rank scores every employee in the pool against the claimed name and
// returns the candidates at or above MinScore, best first, capped at
// MaxSuggestions.
func Rank(claimed string, pool []store.Employee, sc Scoring) []Candidate {
	input := strings.ToLower(claimed)
	inputTokens := strings.Fields(input)

	var matches []Candidate
	for _, emp := range pool {
		stored := strings.ToLower(emp.FullName)
		score := ratio(input, stored)

		if tokenBonusApplies(inputTokens, strings.Fields(stored), sc.TokenThreshold) {
			score += sc.TokenBonus
		}

		if score >= sc.MinScore {
			matches = append(matches, Candidate{
				EmployeeID: emp.ID,
				FullName:   emp.FullName,
				Score:      score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if sc.MaxSuggestions > 0 && len(matches) > sc.MaxSuggestions {
		matches = matches[:sc.MaxSuggestions]
	}
	return matches
}

// tokenBonusApplies reports whether any input token closely matches any
// stored-name token. The bonus is flat: one close token pair is enough.
func tokenBonusApplies(input, stored []string, threshold float64) bool {
	for _, in := range input {
		for _, st := range stored {
			if ratio(in, st) > threshold {
				return true
			}
		}
	}
	return false
}

// ratio is the normalized edit-similarity of two strings: 1 minus the
// Levenshtein distance over the longer length. 1.0 means identical; empty
// versus empty is identical too.
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
