package recommendations

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
)

var termLabels = map[string]string{
	TermCurrentTeam:   "current-team",
	TermIntraSet:      "intra-set",
	TermCurrentSkills: "with current skills",
	TermSkillHero:     "with current heroes",
}

// reasoning explains the winning candidate: its strongest item, the synergy
// terms that moved the score, and the total. Numbers use one decimal.
func reasoning(kind aggregate.Kind, a CandidateAnalysis) string {
	best, bestScore, ok := strongest(a)
	if !ok {
		return fmt.Sprintf("Recommended set with total score: %.1f", a.TotalScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recommended %s set contains %s with %.1f%% win rate. ", kind, best, bestScore)

	if a.SynergyTotal != 0 {
		fmt.Fprintf(&b, "Pairwise synergy adds %.1f points", a.SynergyTotal)
		var parts []string
		for _, term := range a.Terms {
			if term.Value == 0 {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %.1f", termLabels[term.Name], term.Value))
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
		b.WriteString(". ")
	}

	fmt.Fprintf(&b, "Total score: %.1f", a.TotalScore)
	return b.String()
}

// strongest returns the first item with the highest individual score.
func strongest(a CandidateAnalysis) (string, float64, bool) {
	if len(a.Items) == 0 {
		return "", 0, false
	}
	best := a.Items[0]
	for _, item := range a.Items[1:] {
		if a.ItemScores[item] > a.ItemScores[best] {
			best = item
		}
	}
	return best, a.ItemScores[best], true
}
