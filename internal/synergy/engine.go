// Package synergy answers partner queries over aggregated battle tables:
// which heroes pair well with a hero, which skills pair well with a skill
// given the heroes already drafted, and how a hero does alongside a skill.
//
// Scores are Wilson lower bounds of the pair's win/loss record, so a pair
// seen once and won once ranks below a pair that won 8 of 10.
package synergy

import (
	"sort"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/stats"
)

// Partner is one entry of a synergy list.
type Partner struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	WinRate float64 `json:"win_rate"`
	Games   uint    `json:"games"`
}

// Engine runs read-only queries against one set of tables.
type Engine struct {
	tables *aggregate.Tables
	z      float64
}

// NewEngine creates an engine over the given tables.
func NewEngine(tables *aggregate.Tables) *Engine {
	return &Engine{tables: tables, z: stats.DefaultZ}
}

// Tables returns the underlying tables.
func (e *Engine) Tables() *aggregate.Tables {
	return e.tables
}

func (e *Engine) partner(name string, wl stats.WinLoss) Partner {
	return Partner{
		Name:    name,
		Score:   stats.WilsonLowerBound(wl.Wins, wl.Total(), e.z),
		WinRate: wl.WinRate(),
		Games:   wl.Total(),
	}
}

// HeroSynergies returns up to topK heroes that have played on the same team
// as hero at least minGames times, best first. A topK of 0 or less returns
// every qualifying partner.
func (e *Engine) HeroSynergies(hero string, topK int, minGames uint) []Partner {
	var out []Partner
	e.tables.EachHeroPair(func(k aggregate.PairKey, wl stats.WinLoss) {
		if !k.Contains(hero) || wl.Total() < minGames {
			return
		}
		out = append(out, e.partner(k.Other(hero), wl))
	})
	sortPartners(out)
	return limit(out, topK)
}

// SkillSynergies returns up to topK skills to pair with skill. A candidate's
// score is the best of its direct pairing with skill and its cross pairing
// with each hero in currentHeroes, so skills that suit the drafted heroes
// are promoted even without direct evidence. Only pairs with at least
// minGames games contribute.
func (e *Engine) SkillSynergies(skill string, currentHeroes []string, topK int, minGames uint) []Partner {
	best := make(map[string]Partner)
	offer := func(p Partner) {
		if cur, ok := best[p.Name]; !ok || better(p, cur) {
			best[p.Name] = p
		}
	}

	e.tables.EachSkillPair(func(k aggregate.PairKey, wl stats.WinLoss) {
		if !k.Contains(skill) || wl.Total() < minGames {
			return
		}
		offer(e.partner(k.Other(skill), wl))
	})

	if len(currentHeroes) > 0 {
		heroes := make(map[string]struct{}, len(currentHeroes))
		for _, h := range currentHeroes {
			heroes[h] = struct{}{}
		}
		e.tables.EachSkillHero(func(k aggregate.CrossKey, wl stats.WinLoss) {
			if k.Skill == skill || wl.Total() < minGames {
				return
			}
			if _, ok := heroes[k.Hero]; !ok {
				return
			}
			offer(e.partner(k.Skill, wl))
		})
	}

	out := make([]Partner, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	sortPartners(out)
	return limit(out, topK)
}

// SkillHeroSynergy returns the Wilson score of hero playing alongside skill,
// or 0 when the pair has fewer than minGames games.
func (e *Engine) SkillHeroSynergy(hero, skill string, minGames uint) float64 {
	wl := e.tables.SkillHero(hero, skill)
	if wl.Total() == 0 || wl.Total() < minGames {
		return 0
	}
	return stats.WilsonLowerBound(wl.Wins, wl.Total(), e.z)
}

// better orders partners: score, then games, then name.
func better(a, b Partner) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Games != b.Games {
		return a.Games > b.Games
	}
	return a.Name < b.Name
}

func sortPartners(ps []Partner) {
	sort.Slice(ps, func(i, j int) bool { return better(ps[i], ps[j]) })
}

func limit(ps []Partner, n int) []Partner {
	if n > 0 && len(ps) > n {
		return ps[:n]
	}
	return ps
}
