// Package aggregate turns battle records into win/loss frequency tables:
// per hero, per skill, per unordered hero pair, per unordered skill pair,
// per (hero, skill) cross pair, and per whole-team composition.
//
// Tables are built once and are read-only afterwards, so a *Tables value is
// safe for concurrent readers. Lookups never mutate: an absent key reads
// as a zero stats.WinLoss.
package aggregate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramonehamilton/draft-advisor/internal/battle"
	"github.com/ramonehamilton/draft-advisor/internal/stats"
)

// ErrInvalidKind is returned for kind labels other than hero and skill.
var ErrInvalidKind = errors.New("invalid kind")

// Kind selects heroes or skills in ranking queries.
type Kind string

const (
	KindHero  Kind = "hero"
	KindSkill Kind = "skill"
)

// ParseKind validates a kind label.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindHero, KindSkill:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: must be %q or %q, got %q", ErrInvalidKind, KindHero, KindSkill, s)
	}
}

// Summary counts the battles that went into the tables.
type Summary struct {
	Battles   int `json:"total_battles"`
	Team1Wins int `json:"team1_wins"`
	Team2Wins int `json:"team2_wins"`
	Unknown   int `json:"unknown_wins"`
	Skipped   int `json:"skipped"`
}

// Tables holds the frequency tables for one battle corpus.
type Tables struct {
	heroes     map[string]stats.WinLoss
	skills     map[string]stats.WinLoss
	heroPairs  map[PairKey]stats.WinLoss
	skillPairs map[PairKey]stats.WinLoss
	skillHero  map[CrossKey]stats.WinLoss
	teams      map[string]stats.WinLoss

	summary Summary
	span    stats.TimeRange
}

func newTables() *Tables {
	return &Tables{
		heroes:     make(map[string]stats.WinLoss),
		skills:     make(map[string]stats.WinLoss),
		heroPairs:  make(map[PairKey]stats.WinLoss),
		skillPairs: make(map[PairKey]stats.WinLoss),
		skillHero:  make(map[CrossKey]stats.WinLoss),
		teams:      make(map[string]stats.WinLoss),
	}
}

// Build aggregates the records into a fresh set of tables. The result does
// not depend on record order. Records that fail validation (draws, missing
// teams, bad winner labels) are skipped and logged.
func Build(records []battle.Record, logger *slog.Logger) *Tables {
	if logger == nil {
		logger = slog.Default()
	}

	t := newTables()
	times := make([]time.Time, 0, len(records))
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			t.summary.Skipped++
			logger.Warn("skipping battle record", "source", rec.SourceID, "error", err)
			continue
		}

		t.summary.Battles++
		switch rec.Winner {
		case battle.WinnerTeam1:
			t.summary.Team1Wins++
		case battle.WinnerTeam2:
			t.summary.Team2Wins++
		default:
			t.summary.Unknown++
		}
		times = append(times, rec.RecordedAt)

		for _, side := range battle.Sides {
			t.addTeam(rec.Team(side), rec.Winner.Won(side))
		}
	}
	t.span = stats.SpanOf(times)

	logger.Debug("aggregated battles",
		"battles", t.summary.Battles,
		"skipped", t.summary.Skipped,
		"heroes", len(t.heroes),
		"skills", len(t.skills),
		"heroPairs", len(t.heroPairs),
		"skillPairs", len(t.skillPairs))

	return t
}

// addTeam records one team's outcome in every table.
func (t *Tables) addTeam(team []battle.HeroEntry, won bool) {
	if len(team) == 0 {
		return
	}

	heroes := make([]string, 0, len(team))
	var skills []string
	for _, entry := range team {
		heroes = append(heroes, entry.Name)
		t.heroes[entry.Name] = t.heroes[entry.Name].Add(won)
		for _, skill := range entry.Skills {
			skills = append(skills, skill)
			t.skills[skill] = t.skills[skill].Add(won)
		}
	}

	key := TeamKey(heroes)
	t.teams[key] = t.teams[key].Add(won)

	addPairs(t.heroPairs, heroes, won)
	// Skills are pooled across the whole team: two skills on different
	// heroes pair exactly like two skills on the same hero.
	addPairs(t.skillPairs, skills, won)

	for _, hero := range heroes {
		for _, skill := range skills {
			k := CrossKey{Hero: hero, Skill: skill}
			t.skillHero[k] = t.skillHero[k].Add(won)
		}
	}
}

func addPairs(table map[PairKey]stats.WinLoss, names []string, won bool) {
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			k, ok := NewPairKey(names[i], names[j])
			if !ok {
				continue
			}
			table[k] = table[k].Add(won)
		}
	}
}

// Summary returns the battle counts.
func (t *Tables) Summary() Summary {
	return t.summary
}

// Span returns the capture-time range of the aggregated battles.
func (t *Tables) Span() stats.TimeRange {
	return t.span
}

// Hero returns a hero's participation record.
func (t *Tables) Hero(name string) stats.WinLoss {
	return t.heroes[name]
}

// Skill returns a skill's usage record.
func (t *Tables) Skill(name string) stats.WinLoss {
	return t.skills[name]
}

// Entity returns the record for a hero or skill.
func (t *Tables) Entity(kind Kind, name string) stats.WinLoss {
	if kind == KindSkill {
		return t.Skill(name)
	}
	return t.Hero(name)
}

// HeroWinRate returns a hero's raw win rate, 0 when unseen.
func (t *Tables) HeroWinRate(name string) float64 {
	return t.Hero(name).WinRate()
}

// SkillWinRate returns a skill's raw win rate, 0 when unseen.
func (t *Tables) SkillWinRate(name string) float64 {
	return t.Skill(name).WinRate()
}

// HeroPair returns the record of two heroes on the same team, in either order.
func (t *Tables) HeroPair(a, b string) stats.WinLoss {
	k, ok := NewPairKey(a, b)
	if !ok {
		return stats.WinLoss{}
	}
	return t.heroPairs[k]
}

// SkillPair returns the record of two skills on the same team, in either order.
func (t *Tables) SkillPair(a, b string) stats.WinLoss {
	k, ok := NewPairKey(a, b)
	if !ok {
		return stats.WinLoss{}
	}
	return t.skillPairs[k]
}

// SkillHero returns the record of a hero whose team used the skill.
func (t *Tables) SkillHero(hero, skill string) stats.WinLoss {
	return t.skillHero[CrossKey{Hero: hero, Skill: skill}]
}

// Team returns the record of an exact team composition in any order.
func (t *Tables) Team(heroes []string) stats.WinLoss {
	return t.teams[TeamKey(heroes)]
}

// EachHero calls fn for every hero with data.
func (t *Tables) EachHero(fn func(name string, wl stats.WinLoss)) {
	for name, wl := range t.heroes {
		fn(name, wl)
	}
}

// EachSkill calls fn for every skill with data.
func (t *Tables) EachSkill(fn func(name string, wl stats.WinLoss)) {
	for name, wl := range t.skills {
		fn(name, wl)
	}
}

// EachHeroPair calls fn for every hero pair with data.
func (t *Tables) EachHeroPair(fn func(k PairKey, wl stats.WinLoss)) {
	for k, wl := range t.heroPairs {
		fn(k, wl)
	}
}

// EachSkillPair calls fn for every skill pair with data.
func (t *Tables) EachSkillPair(fn func(k PairKey, wl stats.WinLoss)) {
	for k, wl := range t.skillPairs {
		fn(k, wl)
	}
}

// EachSkillHero calls fn for every (hero, skill) cross pair with data.
func (t *Tables) EachSkillHero(fn func(k CrossKey, wl stats.WinLoss)) {
	for k, wl := range t.skillHero {
		fn(k, wl)
	}
}

// EachTeam calls fn for every team composition with data.
func (t *Tables) EachTeam(fn func(heroes []string, wl stats.WinLoss)) {
	for k, wl := range t.teams {
		fn(TeamHeroes(k), wl)
	}
}

// Counts reports the number of entries per table, keyed by export name.
func (t *Tables) Counts() map[string]int {
	return map[string]int{
		"hero_stats":            len(t.heroes),
		"skill_stats":           len(t.skills),
		"hero_pair_stats":       len(t.heroPairs),
		"skill_pair_stats":      len(t.skillPairs),
		"skill_hero_pair_stats": len(t.skillHero),
		"hero_combinations":     len(t.teams),
	}
}
