package export

import (
	"math"
	"strings"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/stats"
)

// Entry is one row of an exported table with its precomputed Wilson score.
type Entry struct {
	Wins   uint    `json:"wins"`
	Losses uint    `json:"losses"`
	Total  uint    `json:"total"`
	Wilson float64 `json:"wilson"`
}

func newEntry(wl stats.WinLoss) Entry {
	return Entry{
		Wins:   wl.Wins,
		Losses: wl.Losses,
		Total:  wl.Total(),
		Wilson: round6(wl.Wilson()),
	}
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

// Statistics is the full table dump consumed by clients that score
// recommendations themselves. Pair keys are the two names joined by ",".
type Statistics struct {
	HeroStats          map[string]Entry `json:"hero_stats"`
	SkillStats         map[string]Entry `json:"skill_stats"`
	HeroCombinations   map[string]Entry `json:"hero_combinations"`
	HeroPairStats      map[string]Entry `json:"hero_pair_stats"`
	SkillPairStats     map[string]Entry `json:"skill_pair_stats"`
	SkillHeroPairStats map[string]Entry `json:"skill_hero_pair_stats"`
	TotalBattles       int              `json:"total_battles"`
	Team1Wins          int              `json:"team1_wins"`
	Team2Wins          int              `json:"team2_wins"`
	UnknownWins        int              `json:"unknown_wins"`
}

// BuildStatistics converts tables into the export document.
func BuildStatistics(t *aggregate.Tables) *Statistics {
	summary := t.Summary()
	out := &Statistics{
		HeroStats:          make(map[string]Entry),
		SkillStats:         make(map[string]Entry),
		HeroCombinations:   make(map[string]Entry),
		HeroPairStats:      make(map[string]Entry),
		SkillPairStats:     make(map[string]Entry),
		SkillHeroPairStats: make(map[string]Entry),
		TotalBattles:       summary.Battles,
		Team1Wins:          summary.Team1Wins,
		Team2Wins:          summary.Team2Wins,
		UnknownWins:        summary.Unknown,
	}

	t.EachHero(func(name string, wl stats.WinLoss) { out.HeroStats[name] = newEntry(wl) })
	t.EachSkill(func(name string, wl stats.WinLoss) { out.SkillStats[name] = newEntry(wl) })
	t.EachTeam(func(heroes []string, wl stats.WinLoss) {
		out.HeroCombinations[strings.Join(heroes, ",")] = newEntry(wl)
	})
	t.EachHeroPair(func(k aggregate.PairKey, wl stats.WinLoss) { out.HeroPairStats[k.String()] = newEntry(wl) })
	t.EachSkillPair(func(k aggregate.PairKey, wl stats.WinLoss) { out.SkillPairStats[k.String()] = newEntry(wl) })
	t.EachSkillHero(func(k aggregate.CrossKey, wl stats.WinLoss) { out.SkillHeroPairStats[k.String()] = newEntry(wl) })

	return out
}

// RankingRow is one CSV line of a hero or skill leaderboard.
type RankingRow struct {
	Rank    int     `csv:"rank"`
	Name    string  `csv:"name"`
	Games   uint    `csv:"games"`
	Wins    uint    `csv:"wins"`
	Losses  uint    `csv:"losses"`
	WinRate float64 `csv:"win_rate"`
	Wilson  float64 `csv:"wilson"`
}

// Rankings returns the leaderboard for kind as export rows.
func Rankings(t *aggregate.Tables, kind aggregate.Kind, limit int) []RankingRow {
	ranks := t.TopEntities(kind, limit)
	rows := make([]RankingRow, len(ranks))
	for i, r := range ranks {
		rows[i] = RankingRow{
			Rank:    i + 1,
			Name:    r.Name,
			Games:   r.Games,
			Wins:    r.Wins,
			Losses:  r.Losses,
			WinRate: r.WinRate,
			Wilson:  round6(stats.WilsonLowerBound(r.Wins, r.Games, stats.DefaultZ)),
		}
	}
	return rows
}
