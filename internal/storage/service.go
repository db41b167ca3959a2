package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramonehamilton/draft-advisor/internal/battle"
	"github.com/ramonehamilton/draft-advisor/internal/evaluation"
	"github.com/ramonehamilton/draft-advisor/internal/storage/models"
	"github.com/ramonehamilton/draft-advisor/internal/storage/repository"
)

// Service stores battles and evaluation runs. It also serves as a
// battle.Source so the advisor can load its corpus from the database.
type Service struct {
	db          *DB
	battles     repository.BattleRepository
	evaluations repository.EvaluationRepository
	logger      *slog.Logger
}

var _ battle.Source = (*Service)(nil)

// NewService creates a storage service over db.
func NewService(db *DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:          db,
		battles:     repository.NewBattleRepository(db.Conn()),
		evaluations: repository.NewEvaluationRepository(db.Conn()),
		logger:      logger,
	}
}

// Battles returns the battle repository.
func (s *Service) Battles() repository.BattleRepository {
	return s.battles
}

// Evaluations returns the evaluation run repository.
func (s *Service) Evaluations() repository.EvaluationRepository {
	return s.evaluations
}

// SourceName identifies the database in logs.
func (s *Service) SourceName() string {
	return "sqlite"
}

// ImportRecords upserts records by source id in a single transaction and
// returns how many were written. Draws are not stored.
func (s *Service) ImportRecords(ctx context.Context, records []battle.Record) (int, error) {
	now := time.Now().UTC()
	written := 0

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		repo := repository.NewBattleRepository(tx)
		for i := range records {
			rec := &records[i]
			if rec.Winner == battle.WinnerDraw {
				continue
			}
			row, err := toModel(rec, now)
			if err != nil {
				return err
			}
			if err := repo.Upsert(ctx, row); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("imported battles", "written", written, "offered", len(records))
	return written, nil
}

// Load returns every stored battle in chronological order. Rows whose
// payload no longer decodes are logged and skipped.
func (s *Service) Load(ctx context.Context) ([]battle.Record, error) {
	rows, err := s.battles.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]battle.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromModel(row)
		if err != nil {
			s.logger.Warn("skipping stored battle", "source", row.SourceID, "error", err)
			continue
		}
		if rec.Winner == battle.WinnerDraw {
			continue
		}
		records = append(records, *rec)
	}

	battle.SortChronological(records)
	return records, nil
}

// SaveEvaluation stores the summary of a harness run.
func (s *Service) SaveEvaluation(ctx context.Context, startedAt time.Time, report *evaluation.Report) (*models.EvaluationRun, error) {
	results, err := json.Marshal(report.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluation results: %w", err)
	}

	best := report.Best
	run := &models.EvaluationRun{
		StartedAt:         startedAt.UTC(),
		DurationMS:        report.Duration.Milliseconds(),
		TrainBattles:      report.TrainBattles,
		ValidationBattles: report.ValidationBattles,
		HeroesEvaluated:   report.HeroesEvaluated,
		SkillsEvaluated:   report.SkillsEvaluated,
		BestMinGames:      int(best.MinGames),
		BestTopK:          best.TopK,
		BestMinWilson:     best.MinWilson,
		HeroNDCG:          best.Hero.NDCG,
		HeroCoverage:      best.Hero.Coverage,
		SkillNDCG:         best.Skill.NDCG,
		SkillCoverage:     best.Skill.Coverage,
		Results:           string(results),
	}
	if err := s.evaluations.Create(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func toModel(rec *battle.Record, importedAt time.Time) (*models.Battle, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode battle %s: %w", rec.SourceID, err)
	}
	return &models.Battle{
		SourceID:   rec.SourceID,
		RecordedAt: rec.RecordedAt.UTC(),
		Winner:     rec.Winner.String(),
		Payload:    string(payload),
		ImportedAt: importedAt,
	}, nil
}

func fromModel(row *models.Battle) (*battle.Record, error) {
	var rec battle.Record
	if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	rec.SourceID = row.SourceID
	rec.RecordedAt = row.RecordedAt.UTC()
	return &rec, nil
}
