// Package recommendations scores the candidate sets offered in a draft round
// and picks the one that best fits the team drafted so far.
//
// A candidate's total is its base score (100 times the raw win rate of each
// item) plus a set of pairwise synergy terms. Each term walks a list of
// pairs and, per pair, either subtracts a penalty (no data, or too few
// games), adds a weighted Wilson score (enough games and a score at or
// above the threshold), or does nothing.
package recommendations

import (
	"errors"
	"sort"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/stats"
)

var (
	// ErrMissingContext is returned when the current team is not supplied.
	ErrMissingContext = errors.New("current team context is required")

	// ErrEmptyCandidateSet is returned when there is nothing to choose from.
	ErrEmptyCandidateSet = errors.New("no candidate sets to choose from")

	// ErrInvalidTunables is returned for out-of-range weights or thresholds.
	ErrInvalidTunables = errors.New("invalid recommendation tunables")
)

// Synergy term names, used as breakdown keys.
const (
	TermCurrentTeam   = "current_team"
	TermIntraSet      = "intra_set"
	TermCurrentSkills = "current_skills"
	TermSkillHero     = "skill_hero"
)

// Recommender picks the best candidate set for a draft round.
type Recommender interface {
	// RecommendHeroSet scores hero sets against the heroes already on the team.
	RecommendHeroSet(candidates [][]string, currentTeam []string, t HeroTunables) (*Result, error)

	// RecommendSkillSet scores skill sets against the current heroes and skills.
	RecommendSkillSet(candidates [][]string, currentHeroes, currentSkills []string, t SkillTunables) (*Result, error)
}

// SynergyTerm is one pairwise contribution to a candidate's score.
type SynergyTerm struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Pairs    int     `json:"pairs"`
	Bonus    int     `json:"bonus_pairs"`
	Unknown  int     `json:"unknown_pairs"`
	LowCount int     `json:"low_count_pairs"`
}

// CandidateAnalysis is the scoring breakdown for one candidate set.
type CandidateAnalysis struct {
	Index            int                `json:"index"`
	Rank             int                `json:"rank"`
	Items            []string           `json:"items"`
	ItemScores       map[string]float64 `json:"item_scores"`
	BaseScore        float64            `json:"base_score"`
	Terms            []SynergyTerm      `json:"terms"`
	SynergyBreakdown map[string]float64 `json:"synergy_breakdown"`
	SynergyTotal     float64            `json:"synergy_total"`
	TotalScore       float64            `json:"total_score"`
}

// Result is the outcome of one recommendation call. Candidates are ordered
// best first; RecommendedIndex refers to the caller's original ordering.
type Result struct {
	Kind             aggregate.Kind      `json:"kind"`
	RecommendedIndex int                 `json:"recommended_index"`
	Candidates       []CandidateAnalysis `json:"candidates"`
	Reasoning        string              `json:"reasoning"`
}

// Recommended returns the winning candidate.
func (r *Result) Recommended() CandidateAnalysis {
	return r.Candidates[0]
}

// Scorer implements Recommender over one set of tables.
type Scorer struct {
	tables *aggregate.Tables
	z      float64
}

var _ Recommender = (*Scorer)(nil)

// NewScorer creates a scorer over the given tables.
func NewScorer(tables *aggregate.Tables) *Scorer {
	return &Scorer{tables: tables, z: stats.DefaultZ}
}

// RecommendHeroSet scores each hero set by its heroes' win rates, its pair
// records with currentTeam and, optionally, the pairs inside the set.
func (s *Scorer) RecommendHeroSet(candidates [][]string, currentTeam []string, t HeroTunables) (*Result, error) {
	if len(currentTeam) == 0 {
		return nil, ErrMissingContext
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	analyses := make([]CandidateAnalysis, len(candidates))
	for i, set := range candidates {
		a := s.base(i, set, s.tables.HeroWinRate)
		a.add(s.tally(TermCurrentTeam, s.tables.HeroPair, crossPairs(currentTeam, set), t.WeightCurrentPair, t.Pairs))
		if t.IncludeIntraSet {
			a.add(s.tally(TermIntraSet, s.tables.HeroPair, intraPairs(set), t.WeightIntraPair, t.Pairs))
		}
		analyses[i] = a
	}

	return finish(aggregate.KindHero, analyses), nil
}

// RecommendSkillSet scores each skill set by its skills' win rates, its pair
// records with currentSkills, optionally the pairs inside the set, and the
// cross records of every current hero with every candidate skill.
// currentHeroes is required; currentSkills may be empty.
func (s *Scorer) RecommendSkillSet(candidates [][]string, currentHeroes, currentSkills []string, t SkillTunables) (*Result, error) {
	if len(currentHeroes) == 0 {
		return nil, ErrMissingContext
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	analyses := make([]CandidateAnalysis, len(candidates))
	for i, set := range candidates {
		a := s.base(i, set, s.tables.SkillWinRate)
		a.add(s.tally(TermCurrentSkills, s.tables.SkillPair, crossPairs(currentSkills, set), t.WeightCurrentSkillPair, t.Pairs))
		if t.IncludeIntraSet {
			a.add(s.tally(TermIntraSet, s.tables.SkillPair, intraPairs(set), t.WeightIntraSkillPair, t.Pairs))
		}
		a.add(s.tally(TermSkillHero, s.tables.SkillHero, crossPairs(currentHeroes, set), t.WeightSkillHeroPair, t.Pairs))
		analyses[i] = a
	}

	return finish(aggregate.KindSkill, analyses), nil
}

func (s *Scorer) base(index int, set []string, winRate func(string) float64) CandidateAnalysis {
	a := CandidateAnalysis{
		Index:            index,
		Items:            set,
		ItemScores:       make(map[string]float64, len(set)),
		Terms:            []SynergyTerm{},
		SynergyBreakdown: make(map[string]float64),
	}
	for _, item := range set {
		score := winRate(item) * 100
		a.ItemScores[item] = score
		a.BaseScore += score
	}
	a.TotalScore = a.BaseScore
	return a
}

func (a *CandidateAnalysis) add(term SynergyTerm) {
	a.Terms = append(a.Terms, term)
	a.SynergyBreakdown[term.Name] = term.Value
	a.SynergyTotal += term.Value
	a.TotalScore = a.BaseScore + a.SynergyTotal
}

type pair struct{ a, b string }

// crossPairs pairs every context item with every candidate item.
func crossPairs(context, set []string) []pair {
	out := make([]pair, 0, len(context)*len(set))
	for _, c := range context {
		for _, item := range set {
			out = append(out, pair{c, item})
		}
	}
	return out
}

// intraPairs lists the unordered pairs within a set.
func intraPairs(set []string) []pair {
	var out []pair
	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			out = append(out, pair{set[i], set[j]})
		}
	}
	return out
}

// tally runs the per-pair policy over pairs and returns the resulting term.
func (s *Scorer) tally(name string, lookup func(a, b string) stats.WinLoss, pairs []pair, weight float64, p PairPolicy) SynergyTerm {
	term := SynergyTerm{Name: name}
	sum := 0.0
	for _, pr := range pairs {
		wl := lookup(pr.a, pr.b)
		term.Pairs++
		total := wl.Total()
		switch {
		case total == 0:
			term.Unknown++
			sum -= p.UnknownPairPenalty
		case total < p.MinGames:
			term.LowCount++
			sum -= p.LowCountPenalty
		default:
			if w := stats.WilsonLowerBound(wl.Wins, total, s.z); w >= p.MinWilson {
				term.Bonus++
				sum += w * weight
			}
		}
	}
	if p.Normalize && term.Pairs > 0 {
		sum /= float64(term.Pairs)
	}
	term.Value = sum
	return term
}

// finish ranks the analyses and writes the reasoning for the winner.
// Equal totals keep their original order.
func finish(kind aggregate.Kind, analyses []CandidateAnalysis) *Result {
	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].TotalScore > analyses[j].TotalScore
	})
	for i := range analyses {
		analyses[i].Rank = i + 1
	}
	return &Result{
		Kind:             kind,
		RecommendedIndex: analyses[0].Index,
		Candidates:       analyses,
		Reasoning:        reasoning(kind, analyses[0]),
	}
}
