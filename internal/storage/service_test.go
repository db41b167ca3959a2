package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draft-advisor/internal/battle"
	"github.com/ramonehamilton/draft-advisor/internal/evaluation"
	"github.com/ramonehamilton/draft-advisor/internal/storage/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := Open(DefaultConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(db, nil)
}

func sampleRecord(id string, at time.Time, winner battle.Winner) battle.Record {
	return battle.Record{
		SourceID:   id,
		RecordedAt: at,
		Team1:      []battle.HeroEntry{{Name: "A", Skills: []string{"a1", "a2"}}},
		Team2:      []battle.HeroEntry{{Name: "B", Skills: []string{"b1"}}},
		Winner:     winner,
	}
}

func TestService_ImportAndLoad(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 21, 30, 5, 0, time.UTC)

	records := []battle.Record{
		sampleRecord("late.json", base.Add(time.Hour), battle.WinnerTeam2),
		sampleRecord("early.json", base, battle.WinnerTeam1),
		sampleRecord("draw.json", base, battle.WinnerDraw),
	}
	written, err := s.ImportRecords(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	// Importing again replaces rather than duplicates.
	written, err = s.ImportRecords(ctx, records[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	count, err := s.Battles().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "early.json", loaded[0].SourceID)
	assert.True(t, loaded[0].RecordedAt.Equal(base))
	assert.Equal(t, battle.WinnerTeam1, loaded[0].Winner)
	assert.Equal(t, []string{"a1", "a2"}, loaded[0].Team1[0].Skills)
	assert.Equal(t, battle.WinnerTeam2, loaded[1].Winner)
	assert.Equal(t, "sqlite", s.SourceName())
}

func TestService_LoadSkipsCorruptPayload(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.Battles().Upsert(ctx, &models.Battle{
		SourceID: "bad.json", RecordedAt: now, Winner: "1", Payload: "{", ImportedAt: now,
	}))
	_, err := s.ImportRecords(ctx, []battle.Record{sampleRecord("good.json", now, battle.WinnerTeam1)})
	require.NoError(t, err)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "good.json", loaded[0].SourceID)
}

func TestService_SaveEvaluation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	report := &evaluation.Report{
		TrainBattles:      8,
		ValidationBattles: 2,
		HeroesEvaluated:   4,
		Duration:          1500 * time.Millisecond,
		Results: []evaluation.Result{
			{Params: evaluation.Params{MinGames: 2, TopK: 5, MinWilson: 0.5}, Hero: evaluation.Metrics{NDCG: 0.4}},
			{Params: evaluation.Params{MinGames: 3, TopK: 5, MinWilson: 0.5}, Hero: evaluation.Metrics{NDCG: 0.6, Coverage: 0.5}},
		},
	}
	report.Best = report.Results[1]

	started := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	run, err := s.SaveEvaluation(ctx, started, report)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	got, err := s.Evaluations().Get(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.BestMinGames)
	assert.Equal(t, 0.6, got.HeroNDCG)
	assert.Equal(t, int64(1500), got.DurationMS)
	assert.True(t, got.StartedAt.Equal(started))

	var results []evaluation.Result
	require.NoError(t, json.Unmarshal([]byte(got.Results), &results))
	assert.Len(t, results, 2)
}
