package synergy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/battle"
	"github.com/ramonehamilton/draft-advisor/internal/stats"
)

func entry(name string, skills ...string) battle.HeroEntry {
	return battle.HeroEntry{Name: name, Skills: skills}
}

func repeat(n int, winner battle.Winner, team1, team2 []battle.HeroEntry) []battle.Record {
	out := make([]battle.Record, n)
	for i := range out {
		out[i] = battle.Record{Team1: team1, Team2: team2, Winner: winner}
	}
	return out
}

// pairCorpus has A and B together on team 1 in ten battles, eight won.
// C only ever plays on team 2 and never alongside A.
func pairCorpus() []battle.Record {
	t1 := []battle.HeroEntry{entry("A", "a1"), entry("B", "b1")}
	t2 := []battle.HeroEntry{entry("C", "c1"), entry("D", "d1")}
	records := repeat(8, battle.WinnerTeam1, t1, t2)
	return append(records, repeat(2, battle.WinnerTeam2, t1, t2)...)
}

func newEngine(records []battle.Record) *Engine {
	return NewEngine(aggregate.Build(records, nil))
}

func TestHeroSynergies_PairScenario(t *testing.T) {
	e := newEngine(pairCorpus())

	got := e.HeroSynergies("A", 5, 2)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, stats.WilsonLowerBound(8, 10, stats.DefaultZ), got[0].Score)
	assert.Equal(t, uint(10), got[0].Games)
	assert.InDelta(t, 0.8, got[0].WinRate, 1e-12)
}

func TestHeroSynergies_MinGamesAndOrdering(t *testing.T) {
	var records []battle.Record
	// A+B: 3/3, A+C: 1/1, A+D: 6/10.
	records = append(records, repeat(3, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("A"), entry("B")}, []battle.HeroEntry{entry("X")})...)
	records = append(records, repeat(1, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("A"), entry("C")}, []battle.HeroEntry{entry("X")})...)
	records = append(records, repeat(6, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("A"), entry("D")}, []battle.HeroEntry{entry("X")})...)
	records = append(records, repeat(4, battle.WinnerTeam2,
		[]battle.HeroEntry{entry("A"), entry("D")}, []battle.HeroEntry{entry("X")})...)
	e := newEngine(records)

	tests := []struct {
		name     string
		topK     int
		minGames uint
		want     []string
	}{
		{"all pairs", 0, 1, []string{"B", "D", "C"}},
		{"min games drops single game", 0, 2, []string{"B", "D"}},
		{"top k", 1, 1, []string{"B"}},
		{"min games above everything", 5, 11, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.HeroSynergies("A", tt.topK, tt.minGames)
			var names []string
			for _, p := range got {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestHeroSynergies_TieBreak(t *testing.T) {
	var records []battle.Record
	for _, partner := range []string{"Z", "M", "B"} {
		records = append(records, repeat(2, battle.WinnerTeam1,
			[]battle.HeroEntry{entry("A"), entry(partner)}, []battle.HeroEntry{entry("X")})...)
	}
	e := newEngine(records)

	got := e.HeroSynergies("A", 0, 1)
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "M", got[1].Name)
	assert.Equal(t, "Z", got[2].Name)

	// Repeated calls return the same order.
	assert.Equal(t, got, e.HeroSynergies("A", 0, 1))
}

func TestHeroSynergies_UnknownHero(t *testing.T) {
	e := newEngine(pairCorpus())
	assert.Empty(t, e.HeroSynergies("Nobody", 5, 0))
}

func TestSkillSynergies_MaxOfDirectAndCross(t *testing.T) {
	var records []battle.Record
	// Direct: s1+s2 together 2/4.
	records = append(records, repeat(2, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("P", "s1", "s2")}, []battle.HeroEntry{entry("X", "x")})...)
	records = append(records, repeat(2, battle.WinnerTeam2,
		[]battle.HeroEntry{entry("P", "s1", "s2")}, []battle.HeroEntry{entry("X", "x")})...)
	// Cross: hero H with s2 wins 9/9, s1 never present.
	records = append(records, repeat(9, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("H", "s2")}, []battle.HeroEntry{entry("X", "x")})...)
	e := newEngine(records)

	withoutHeroes := e.SkillSynergies("s1", nil, 5, 2)
	require.Len(t, withoutHeroes, 1)
	assert.Equal(t, "s2", withoutHeroes[0].Name)
	assert.Equal(t, stats.WilsonLowerBound(2, 4, stats.DefaultZ), withoutHeroes[0].Score)

	withHero := e.SkillSynergies("s1", []string{"H"}, 5, 2)
	require.Len(t, withHero, 1)
	assert.Equal(t, "s2", withHero[0].Name)
	assert.Equal(t, stats.WilsonLowerBound(9, 9, stats.DefaultZ), withHero[0].Score)
	assert.Equal(t, uint(9), withHero[0].Games)
}

func TestSkillSynergies_CrossExcludesQuerySkill(t *testing.T) {
	records := repeat(3, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("H", "s1", "s3")}, []battle.HeroEntry{entry("X", "x")})
	e := newEngine(records)

	got := e.SkillSynergies("s1", []string{"H"}, 0, 1)
	for _, p := range got {
		assert.NotEqual(t, "s1", p.Name)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "s3", got[0].Name)
}

func TestSkillSynergies_CrossRespectsMinGames(t *testing.T) {
	records := repeat(1, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("H", "s9")}, []battle.HeroEntry{entry("X", "x")})
	e := newEngine(records)

	assert.Empty(t, e.SkillSynergies("s1", []string{"H"}, 5, 2))
	assert.Len(t, e.SkillSynergies("s1", []string{"H"}, 5, 1), 1)
}

func TestSkillHeroSynergy(t *testing.T) {
	e := newEngine(pairCorpus())

	assert.Equal(t, stats.WilsonLowerBound(8, 10, stats.DefaultZ), e.SkillHeroSynergy("A", "b1", 2))
	assert.Zero(t, e.SkillHeroSynergy("A", "b1", 11))
	assert.Zero(t, e.SkillHeroSynergy("A", "c1", 0))
	assert.Zero(t, e.SkillHeroSynergy("Nobody", "b1", 0))
}

func TestQueriesAreRepeatable(t *testing.T) {
	e := newEngine(pairCorpus())

	assert.Equal(t, e.SkillSynergies("a1", []string{"B"}, 5, 1), e.SkillSynergies("a1", []string{"B"}, 5, 1))
	assert.Equal(t, e.HeroSynergies("C", 5, 1), e.HeroSynergies("C", 5, 1))
}
