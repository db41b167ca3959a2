package aggregate

import (
	"sort"

	"github.com/ramonehamilton/draft-advisor/internal/stats"
)

// EntityRank is one row of a hero or skill leaderboard.
type EntityRank struct {
	Name    string  `json:"name"`
	WinRate float64 `json:"win_rate"`
	Games   uint    `json:"games"`
	Wins    uint    `json:"wins"`
	Losses  uint    `json:"losses"`
}

// Combination is a whole-team composition and its record.
type Combination struct {
	Heroes  []string `json:"heroes"`
	Wins    uint     `json:"wins"`
	Losses  uint     `json:"losses"`
	Games   uint     `json:"total_games"`
	WinRate float64  `json:"win_rate"`
}

// WinRateStats summarizes the win rate distribution of one kind.
type WinRateStats struct {
	Average float64 `json:"avg_winrate"`
	Above50 int     `json:"above_50"`
}

func (t *Tables) entities(kind Kind) map[string]stats.WinLoss {
	if kind == KindSkill {
		return t.skills
	}
	return t.heroes
}

func (t *Tables) ranks(kind Kind) []EntityRank {
	src := t.entities(kind)
	ranks := make([]EntityRank, 0, len(src))
	for name, wl := range src {
		if wl.Total() == 0 {
			continue
		}
		ranks = append(ranks, EntityRank{
			Name:    name,
			WinRate: wl.WinRate(),
			Games:   wl.Total(),
			Wins:    wl.Wins,
			Losses:  wl.Losses,
		})
	}
	return ranks
}

// TopEntities returns heroes or skills sorted by win rate, then games
// played, both descending. Names break remaining ties so the order is
// stable across calls. A limit of 0 or less returns every entry.
func (t *Tables) TopEntities(kind Kind, limit int) []EntityRank {
	ranks := t.ranks(kind)
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].WinRate != ranks[j].WinRate {
			return ranks[i].WinRate > ranks[j].WinRate
		}
		if ranks[i].Games != ranks[j].Games {
			return ranks[i].Games > ranks[j].Games
		}
		return ranks[i].Name < ranks[j].Name
	})
	return truncate(ranks, limit)
}

// Usage returns heroes or skills sorted by games played, descending.
func (t *Tables) Usage(kind Kind, limit int) []EntityRank {
	ranks := t.ranks(kind)
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Games != ranks[j].Games {
			return ranks[i].Games > ranks[j].Games
		}
		return ranks[i].Name < ranks[j].Name
	})
	return truncate(ranks, limit)
}

// Names returns every hero or skill with data, sorted.
func (t *Tables) Names(kind Kind) []string {
	src := t.entities(kind)
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WinRateStats returns the mean win rate and the number of entries above 50%.
func (t *Tables) WinRateStats(kind Kind) WinRateStats {
	var out WinRateStats
	ranks := t.ranks(kind)
	if len(ranks) == 0 {
		return out
	}
	sum := 0.0
	for _, r := range ranks {
		sum += r.WinRate
		if r.WinRate > 0.5 {
			out.Above50++
		}
	}
	out.Average = sum / float64(len(ranks))
	return out
}

// WinningCombinations returns team compositions with at least one win,
// sorted by wins then win rate, both descending.
func (t *Tables) WinningCombinations(limit int) []Combination {
	var combos []Combination
	t.EachTeam(func(heroes []string, wl stats.WinLoss) {
		if wl.Wins == 0 {
			return
		}
		combos = append(combos, Combination{
			Heroes:  heroes,
			Wins:    wl.Wins,
			Losses:  wl.Losses,
			Games:   wl.Total(),
			WinRate: wl.WinRate(),
		})
	})
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Wins != combos[j].Wins {
			return combos[i].Wins > combos[j].Wins
		}
		if combos[i].WinRate != combos[j].WinRate {
			return combos[i].WinRate > combos[j].WinRate
		}
		return TeamKey(combos[i].Heroes) < TeamKey(combos[j].Heroes)
	})
	if limit > 0 && len(combos) > limit {
		combos = combos[:limit]
	}
	return combos
}

func truncate(ranks []EntityRank, limit int) []EntityRank {
	if limit > 0 && len(ranks) > limit {
		return ranks[:limit]
	}
	return ranks
}

// Analytics is the dashboard view of one corpus.
type Analytics struct {
	Summary       Summary       `json:"summary"`
	TotalHeroes   int           `json:"total_heroes"`
	TotalSkills   int           `json:"total_skills"`
	TopHeroes     []EntityRank  `json:"top_heroes"`
	TopSkills     []EntityRank  `json:"top_skills"`
	HeroUsage     []EntityRank  `json:"hero_usage"`
	SkillUsage    []EntityRank  `json:"skill_usage"`
	WinningCombos []Combination `json:"winning_combos"`
	HeroWinRates  WinRateStats  `json:"hero_win_rate_stats"`
	SkillWinRates WinRateStats  `json:"skill_win_rate_stats"`
}

// Analytics builds the dashboard: top 20 heroes, top 30 skills, usage at
// the same depths, and the 15 best winning compositions.
func (t *Tables) Analytics() Analytics {
	return Analytics{
		Summary:       t.summary,
		TotalHeroes:   len(t.heroes),
		TotalSkills:   len(t.skills),
		TopHeroes:     t.TopEntities(KindHero, 20),
		TopSkills:     t.TopEntities(KindSkill, 30),
		HeroUsage:     t.Usage(KindHero, 20),
		SkillUsage:    t.Usage(KindSkill, 30),
		WinningCombos: t.WinningCombinations(15),
		HeroWinRates:  t.WinRateStats(KindHero),
		SkillWinRates: t.WinRateStats(KindSkill),
	}
}
