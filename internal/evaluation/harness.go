// Package evaluation measures how well synergy rankings learned from older
// battles predict partner win rates in newer ones.
//
// The corpus is split chronologically into a train prefix and a validation
// suffix. Synergy queries run against tables built from the train split and
// their rankings are scored with NDCG@k against pair win rates observed in
// the validation split alone. A small hyperparameter grid is swept and the
// best cell by hero NDCG (coverage breaks ties) is reported.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/battle"
	"github.com/ramonehamilton/draft-advisor/internal/stats"
	"github.com/ramonehamilton/draft-advisor/internal/synergy"
)

// ErrInsufficientData is returned when the corpus is too small to split.
var ErrInsufficientData = errors.New("not enough battles to evaluate")

const (
	// MinRecords is the smallest corpus the harness will evaluate.
	MinRecords = 10

	// DefaultTrainRatio is the share of battles used for training.
	DefaultTrainRatio = 0.8
)

// Grid lists the hyperparameter values to sweep.
type Grid struct {
	MinGames  []uint    `toml:"min_games" json:"min_games"`
	TopK      []int     `toml:"top_k" json:"top_k"`
	MinWilson []float64 `toml:"min_wilson" json:"min_wilson"`
}

// DefaultGrid returns the sweep used for corpora of a few thousand battles.
func DefaultGrid() Grid {
	return Grid{
		MinGames:  []uint{1, 2, 3, 5, 8, 10},
		TopK:      []int{3, 5, 8, 10, 12},
		MinWilson: []float64{0.50, 0.55, 0.60},
	}
}

// Size returns the number of grid cells.
func (g Grid) Size() int {
	return len(g.MinGames) * len(g.TopK) * len(g.MinWilson)
}

// Validate rejects empty axes and out-of-range values.
func (g Grid) Validate() error {
	if g.Size() == 0 {
		return fmt.Errorf("evaluation grid must have at least one value per axis")
	}
	for _, k := range g.TopK {
		if k <= 0 {
			return fmt.Errorf("top_k values must be positive, got %d", k)
		}
	}
	for _, w := range g.MinWilson {
		if w < 0 || w > 1 {
			return fmt.Errorf("min_wilson values must be between 0 and 1, got %g", w)
		}
	}
	return nil
}

// Params is one grid cell.
type Params struct {
	MinGames  uint    `json:"min_games"`
	TopK      int     `json:"top_k"`
	MinWilson float64 `json:"min_wilson"`
}

func (p Params) String() string {
	return fmt.Sprintf("min_games=%d top_k=%d min_wilson=%.2f", p.MinGames, p.TopK, p.MinWilson)
}

// Metrics is the score of one entity kind for one grid cell.
type Metrics struct {
	NDCG     float64 `json:"ndcg"`
	Coverage float64 `json:"coverage"`
	Queried  int     `json:"queried"`
}

// Result pairs a grid cell with its hero and skill metrics.
type Result struct {
	Params
	Hero  Metrics `json:"hero"`
	Skill Metrics `json:"skill"`
}

// Report is the outcome of one harness run.
type Report struct {
	TrainBattles      int             `json:"train_battles"`
	ValidationBattles int             `json:"validation_battles"`
	TrainRange        stats.TimeRange `json:"train_range"`
	ValidationRange   stats.TimeRange `json:"validation_range"`
	HeroesEvaluated   int             `json:"heroes_evaluated"`
	SkillsEvaluated   int             `json:"skills_evaluated"`
	Results           []Result        `json:"results"`
	Best              Result          `json:"best"`
	Duration          time.Duration   `json:"duration"`
}

// Split orders records chronologically and cuts them into a train prefix
// holding max(1, floor(n*ratio)) records and a validation suffix.
// The input slice is not modified.
func Split(records []battle.Record, ratio float64) (train, validation []battle.Record) {
	sorted := append([]battle.Record(nil), records...)
	battle.SortChronological(sorted)

	n := len(sorted)
	nTrain := int(float64(n) * ratio)
	if nTrain < 1 {
		nTrain = 1
	}
	if nTrain > n {
		nTrain = n
	}
	return sorted[:nTrain], sorted[nTrain:]
}

// Harness runs evaluations.
type Harness struct {
	TrainRatio float64
	Logger     *slog.Logger
}

// NewHarness creates a harness with the default train ratio.
func NewHarness(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harness{TrainRatio: DefaultTrainRatio, Logger: logger}
}

// Run splits records, trains on the prefix, and sweeps grid against the
// validation suffix. Results keep grid order; Best is the cell with the
// highest hero NDCG, then hero coverage, earliest cell first on ties.
func (h *Harness) Run(ctx context.Context, records []battle.Record, grid Grid) (*Report, error) {
	start := time.Now()

	if len(records) < MinRecords {
		return nil, fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientData, len(records), MinRecords)
	}
	if h.TrainRatio <= 0 || h.TrainRatio >= 1 {
		return nil, fmt.Errorf("train ratio must be between 0 and 1, got %g", h.TrainRatio)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	train, validation := Split(records, h.TrainRatio)
	trained := synergy.NewEngine(aggregate.Build(train, h.Logger))
	truth := aggregate.Build(validation, h.Logger)

	heroTruth := relevanceByEntity(truth.EachHeroPair)
	skillTruth := relevanceByEntity(truth.EachSkillPair)
	heroes := sortedKeys(heroTruth)
	skills := sortedKeys(skillTruth)

	h.Logger.Info("evaluation split",
		"train", len(train),
		"validation", len(validation),
		"heroes", len(heroes),
		"skills", len(skills),
		"cells", grid.Size())

	report := &Report{
		TrainBattles:      len(train),
		ValidationBattles: len(validation),
		TrainRange:        spanOf(train),
		ValidationRange:   spanOf(validation),
		HeroesEvaluated:   len(heroes),
		SkillsEvaluated:   len(skills),
		Results:           make([]Result, 0, grid.Size()),
	}

	for _, minGames := range grid.MinGames {
		for _, topK := range grid.TopK {
			for _, minWilson := range grid.MinWilson {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				p := Params{MinGames: minGames, TopK: topK, MinWilson: minWilson}
				res := Result{
					Params: p,
					Hero: score(heroes, heroTruth, p, func(name string) []synergy.Partner {
						return trained.HeroSynergies(name, topK, minGames)
					}),
					Skill: score(skills, skillTruth, p, func(name string) []synergy.Partner {
						return trained.SkillSynergies(name, nil, topK, minGames)
					}),
				}
				h.Logger.Debug("evaluated grid cell",
					"params", p.String(),
					"heroNDCG", res.Hero.NDCG,
					"heroCoverage", res.Hero.Coverage,
					"skillNDCG", res.Skill.NDCG,
					"skillCoverage", res.Skill.Coverage)
				report.Results = append(report.Results, res)
			}
		}
	}

	report.Best = best(report.Results)
	report.Duration = time.Since(start)
	return report, nil
}

// score averages NDCG over entities and counts those with any prediction
// that survived the min_wilson filter.
func score(entities []string, truth map[string]map[string]float64, p Params, query func(string) []synergy.Partner) Metrics {
	m := Metrics{Queried: len(entities)}
	if len(entities) == 0 {
		return m
	}

	sum := 0.0
	covered := 0
	for _, name := range entities {
		var predicted []string
		for _, partner := range query(name) {
			if partner.Score >= p.MinWilson {
				predicted = append(predicted, partner.Name)
			}
		}
		if len(predicted) > 0 {
			covered++
		}
		sum += NDCG(predicted, truth[name], p.TopK)
	}

	m.NDCG = sum / float64(len(entities))
	m.Coverage = float64(covered) / float64(len(entities))
	return m
}

func best(results []Result) Result {
	if len(results) == 0 {
		return Result{}
	}
	ranked := append([]Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Hero.NDCG != ranked[j].Hero.NDCG {
			return ranked[i].Hero.NDCG > ranked[j].Hero.NDCG
		}
		return ranked[i].Hero.Coverage > ranked[j].Hero.Coverage
	})
	return ranked[0]
}

// relevanceByEntity turns a pair table into per-entity partner win rates.
func relevanceByEntity(each func(func(aggregate.PairKey, stats.WinLoss))) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	each(func(k aggregate.PairKey, wl stats.WinLoss) {
		if wl.Total() == 0 {
			return
		}
		rate := wl.WinRate()
		for _, pair := range [2][2]string{{k.A, k.B}, {k.B, k.A}} {
			if out[pair[0]] == nil {
				out[pair[0]] = make(map[string]float64)
			}
			out[pair[0]][pair[1]] = rate
		}
	})
	return out
}

func sortedKeys(m map[string]map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func spanOf(records []battle.Record) stats.TimeRange {
	times := make([]time.Time, len(records))
	for i := range records {
		times[i] = records[i].RecordedAt
	}
	return stats.SpanOf(times)
}
