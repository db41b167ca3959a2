package recommendations

import (
	"fmt"
)

// PairPolicy decides how a single pair lookup feeds a synergy term.
type PairPolicy struct {
	// MinWilson is the lowest Wilson score that still earns a bonus.
	MinWilson float64 `toml:"min_wilson" json:"min_wilson"`

	// MinGames is the number of games below which a pair is low-count.
	MinGames uint `toml:"min_games" json:"min_games"`

	// UnknownPairPenalty is subtracted for each pair with no data at all.
	UnknownPairPenalty float64 `toml:"unknown_pair_penalty" json:"unknown_pair_penalty"`

	// LowCountPenalty is subtracted for each pair with fewer than MinGames games.
	LowCountPenalty float64 `toml:"low_count_penalty" json:"low_count_penalty"`

	// Normalize divides each term by its number of pairs.
	Normalize bool `toml:"normalize" json:"normalize"`
}

// Validate checks the policy ranges.
func (p PairPolicy) Validate() error {
	if p.MinWilson < 0 || p.MinWilson > 1 {
		return fmt.Errorf("%w: min_wilson must be between 0 and 1, got %g", ErrInvalidTunables, p.MinWilson)
	}
	if p.UnknownPairPenalty <= 0 {
		return fmt.Errorf("%w: unknown_pair_penalty must be positive, got %g", ErrInvalidTunables, p.UnknownPairPenalty)
	}
	if p.LowCountPenalty <= 0 {
		return fmt.Errorf("%w: low_count_penalty must be positive, got %g", ErrInvalidTunables, p.LowCountPenalty)
	}
	return nil
}

// HeroTunables configures hero-set recommendation.
type HeroTunables struct {
	IncludeIntraSet   bool       `toml:"include_intra_set" json:"include_intra_set"`
	WeightCurrentPair float64    `toml:"weight_current_pair" json:"weight_current_pair"`
	WeightIntraPair   float64    `toml:"weight_intra_pair" json:"weight_intra_pair"`
	Pairs             PairPolicy `toml:"pairs" json:"pairs"`
}

// DefaultHeroTunables returns the policy the advisor serves with.
func DefaultHeroTunables() HeroTunables {
	return HeroTunables{
		IncludeIntraSet:   true,
		WeightCurrentPair: 20.0,
		WeightIntraPair:   15.0,
		Pairs: PairPolicy{
			MinWilson:          0.5,
			MinGames:           2,
			UnknownPairPenalty: 2.0,
			LowCountPenalty:    0.5,
			Normalize:          true,
		},
	}
}

// Validate checks weights and the pair policy.
func (t HeroTunables) Validate() error {
	if t.WeightCurrentPair < 0 || t.WeightIntraPair < 0 {
		return fmt.Errorf("%w: hero pair weights must not be negative", ErrInvalidTunables)
	}
	return t.Pairs.Validate()
}

// SkillTunables configures skill-set recommendation.
type SkillTunables struct {
	IncludeIntraSet        bool       `toml:"include_intra_set" json:"include_intra_set"`
	WeightCurrentSkillPair float64    `toml:"weight_current_skill_pair" json:"weight_current_skill_pair"`
	WeightIntraSkillPair   float64    `toml:"weight_intra_skill_pair" json:"weight_intra_skill_pair"`
	WeightSkillHeroPair    float64    `toml:"weight_skill_hero_pair" json:"weight_skill_hero_pair"`
	Pairs                  PairPolicy `toml:"pairs" json:"pairs"`
}

// DefaultSkillTunables returns the policy the advisor serves with.
func DefaultSkillTunables() SkillTunables {
	return SkillTunables{
		IncludeIntraSet:        true,
		WeightCurrentSkillPair: 15.0,
		WeightIntraSkillPair:   12.0,
		WeightSkillHeroPair:    8.0,
		Pairs: PairPolicy{
			MinWilson:          0.5,
			MinGames:           2,
			UnknownPairPenalty: 1.5,
			LowCountPenalty:    0.4,
			Normalize:          true,
		},
	}
}

// Validate checks weights and the pair policy.
func (t SkillTunables) Validate() error {
	if t.WeightCurrentSkillPair < 0 || t.WeightIntraSkillPair < 0 || t.WeightSkillHeroPair < 0 {
		return fmt.Errorf("%w: skill pair weights must not be negative", ErrInvalidTunables)
	}
	return t.Pairs.Validate()
}
