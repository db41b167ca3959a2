package synergy

import (
	"sort"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/stats"
)

const (
	topPartnerCount    = 10
	topPartnerMinGames = 2
)

// PairRecord is the record of an item against one member of the caller's team.
type PairRecord struct {
	With    string  `json:"with"`
	Kind    string  `json:"kind"`
	Wins    uint    `json:"wins"`
	Losses  uint    `json:"losses"`
	Games   uint    `json:"games"`
	WinRate float64 `json:"win_rate"`
	Score   float64 `json:"score"`
}

// Pair kinds reported in PairRecord.Kind.
const (
	PairHero  = "hero"
	PairSkill = "skill"
	PairCross = "skill_hero"
)

// ItemStats describes one hero or skill in detail.
type ItemStats struct {
	Name       string         `json:"name"`
	Kind       aggregate.Kind `json:"kind"`
	Known      bool           `json:"known"`
	Wins       uint           `json:"wins"`
	Losses     uint           `json:"losses"`
	Games      uint           `json:"games"`
	WinRate    float64        `json:"win_rate"`
	Confidence float64        `json:"confidence"`

	TopPartners []Partner    `json:"top_partners"`
	TeamPairs   []PairRecord `json:"team_pairs"`
}

func (e *Engine) itemStats(kind aggregate.Kind, name string) ItemStats {
	wl := e.tables.Entity(kind, name)
	return ItemStats{
		Name:        name,
		Kind:        kind,
		Known:       wl.Total() > 0,
		Wins:        wl.Wins,
		Losses:      wl.Losses,
		Games:       wl.Total(),
		WinRate:     wl.WinRate(),
		Confidence:  stats.WilsonLowerBound(wl.Wins, wl.Total(), e.z),
		TopPartners: []Partner{},
		TeamPairs:   []PairRecord{},
	}
}

func (e *Engine) pairRecord(with, kind string, wl stats.WinLoss) PairRecord {
	return PairRecord{
		With:    with,
		Kind:    kind,
		Wins:    wl.Wins,
		Losses:  wl.Losses,
		Games:   wl.Total(),
		WinRate: wl.WinRate(),
		Score:   stats.WilsonLowerBound(wl.Wins, wl.Total(), e.z),
	}
}

// HeroStats returns a hero's record, its ten best partners by raw pair win
// rate, and its record with each of currentHeroes. An unseen hero yields
// zero counts with Known false.
func (e *Engine) HeroStats(hero string, currentHeroes []string) ItemStats {
	out := e.itemStats(aggregate.KindHero, hero)

	var partners []Partner
	e.tables.EachHeroPair(func(k aggregate.PairKey, wl stats.WinLoss) {
		if k.Contains(hero) && wl.Total() >= topPartnerMinGames {
			partners = append(partners, e.partner(k.Other(hero), wl))
		}
	})
	out.TopPartners = topByWinRate(partners)

	for _, other := range currentHeroes {
		if other == hero {
			continue
		}
		out.TeamPairs = append(out.TeamPairs, e.pairRecord(other, PairHero, e.tables.HeroPair(hero, other)))
	}
	return out
}

// SkillStats returns a skill's record, its ten best partner skills, and its
// record with each of currentSkills and each of currentHeroes.
func (e *Engine) SkillStats(skill string, currentHeroes, currentSkills []string) ItemStats {
	out := e.itemStats(aggregate.KindSkill, skill)

	var partners []Partner
	e.tables.EachSkillPair(func(k aggregate.PairKey, wl stats.WinLoss) {
		if k.Contains(skill) && wl.Total() >= topPartnerMinGames {
			partners = append(partners, e.partner(k.Other(skill), wl))
		}
	})
	out.TopPartners = topByWinRate(partners)

	for _, other := range currentSkills {
		if other == skill {
			continue
		}
		out.TeamPairs = append(out.TeamPairs, e.pairRecord(other, PairSkill, e.tables.SkillPair(skill, other)))
	}
	for _, hero := range currentHeroes {
		out.TeamPairs = append(out.TeamPairs, e.pairRecord(hero, PairCross, e.tables.SkillHero(hero, skill)))
	}
	return out
}

func topByWinRate(ps []Partner) []Partner {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].WinRate != ps[j].WinRate {
			return ps[i].WinRate > ps[j].WinRate
		}
		if ps[i].Games != ps[j].Games {
			return ps[i].Games > ps[j].Games
		}
		return ps[i].Name < ps[j].Name
	})
	if ps == nil {
		return []Partner{}
	}
	return limit(ps, topPartnerCount)
}
