package evaluation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draft-advisor/internal/battle"
)

func TestDCG(t *testing.T) {
	assert.Equal(t, 0.0, DCG(nil))
	assert.InDelta(t, 1+0.5/math.Log2(3), DCG([]float64{1, 0.5}), 1e-12)
}

func TestNDCG(t *testing.T) {
	rel := map[string]float64{"x": 0.2, "y": 1.0, "z": 0.5}

	tests := []struct {
		name      string
		predicted []string
		relevance map[string]float64
		k         int
		want      float64
	}{
		{"ideal order", []string{"y", "z", "x"}, rel, 3, 1},
		{
			"swapped order",
			[]string{"x", "y"}, map[string]float64{"x": 0.2, "y": 1.0}, 2,
			(0.2 + 1/math.Log2(3)) / (1 + 0.2/math.Log2(3)),
		},
		{"unknown partner counts as zero", []string{"q", "y"}, map[string]float64{"y": 1}, 2, (1 / math.Log2(3)) / 1},
		{"cut at k", []string{"y", "x", "z"}, rel, 1, 1},
		{"no predictions", nil, rel, 3, 0},
		{"all-zero truth", []string{"a"}, map[string]float64{"a": 0, "b": 0}, 3, 0},
		{"empty truth", []string{"a"}, nil, 3, 0},
		{"non-positive k", []string{"y"}, rel, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NDCG(tt.predicted, tt.relevance, tt.k), 1e-12)
		})
	}
}

func timedCorpus(n int) []battle.Record {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := []battle.HeroEntry{{Name: "A", Skills: []string{"a"}}, {Name: "B", Skills: []string{"b"}}}
	t2 := []battle.HeroEntry{{Name: "C", Skills: []string{"c"}}, {Name: "D", Skills: []string{"d"}}}
	records := make([]battle.Record, n)
	for i := range records {
		ts := base.Add(time.Duration(i) * time.Minute)
		records[i] = battle.Record{
			SourceID:   ts.Format(battle.TimestampLayout) + ".json",
			RecordedAt: ts,
			Team1:      t1,
			Team2:      t2,
			Winner:     battle.WinnerTeam1,
		}
	}
	return records
}

func reversed(records []battle.Record) []battle.Record {
	out := make([]battle.Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

func TestSplit(t *testing.T) {
	records := timedCorpus(10)

	train, val := Split(reversed(records), 0.8)
	require.Len(t, train, 8)
	require.Len(t, val, 2)
	assert.Equal(t, records[0].SourceID, train[0].SourceID)
	assert.Equal(t, records[8].SourceID, val[0].SourceID)

	train, val = Split(records[:1], 0.8)
	assert.Len(t, train, 1)
	assert.Empty(t, val)

	train, _ = Split(records, 0.01)
	assert.Len(t, train, 1)
}

func TestHarnessRun(t *testing.T) {
	records := timedCorpus(10)
	h := NewHarness(nil)

	grid := Grid{MinGames: []uint{1}, TopK: []int{3}, MinWilson: []float64{0.7, 0.5}}
	report, err := h.Run(context.Background(), reversed(records), grid)
	require.NoError(t, err)

	assert.Equal(t, 8, report.TrainBattles)
	assert.Equal(t, 2, report.ValidationBattles)
	assert.Equal(t, records[0].RecordedAt, report.TrainRange.Start)
	assert.Equal(t, records[7].RecordedAt, report.TrainRange.End)
	assert.Equal(t, records[8].RecordedAt, report.ValidationRange.Start)
	assert.Equal(t, 4, report.HeroesEvaluated)
	assert.Equal(t, 4, report.SkillsEvaluated)
	require.Len(t, report.Results, 2)

	// wilson(8, 8) is about 0.68: nothing passes 0.7.
	strict := report.Results[0]
	assert.Equal(t, 0.0, strict.Hero.NDCG)
	assert.Equal(t, 0.0, strict.Hero.Coverage)

	// A and B predict each other perfectly; C and D have zero relevance.
	loose := report.Results[1]
	assert.InDelta(t, 0.5, loose.Hero.NDCG, 1e-12)
	assert.InDelta(t, 0.5, loose.Hero.Coverage, 1e-12)
	assert.InDelta(t, 0.5, loose.Skill.NDCG, 1e-12)
	assert.InDelta(t, 0.5, loose.Skill.Coverage, 1e-12)

	assert.Equal(t, loose, report.Best)
}

func TestHarnessRun_BestPrefersEarliestOnTie(t *testing.T) {
	h := NewHarness(nil)
	grid := Grid{MinGames: []uint{1, 2}, TopK: []int{3}, MinWilson: []float64{0.5}}

	report, err := h.Run(context.Background(), timedCorpus(10), grid)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, report.Results[0].Hero, report.Results[1].Hero)
	assert.Equal(t, uint(1), report.Best.MinGames)
}

func TestHarnessRun_Errors(t *testing.T) {
	h := NewHarness(nil)

	_, err := h.Run(context.Background(), timedCorpus(9), DefaultGrid())
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = h.Run(context.Background(), timedCorpus(10), Grid{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Run(ctx, timedCorpus(10), DefaultGrid())
	assert.ErrorIs(t, err, context.Canceled)

	bad := NewHarness(nil)
	bad.TrainRatio = 1
	_, err = bad.Run(context.Background(), timedCorpus(10), DefaultGrid())
	assert.Error(t, err)
}

func TestDefaultGrid(t *testing.T) {
	g := DefaultGrid()
	require.NoError(t, g.Validate())
	assert.Equal(t, 90, g.Size())
}
