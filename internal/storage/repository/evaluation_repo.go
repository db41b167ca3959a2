package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ramonehamilton/draft-advisor/internal/storage/models"
)

// EvaluationRepository stores evaluation sweep summaries.
type EvaluationRepository interface {
	// Create stores a run, generating its id when empty.
	Create(ctx context.Context, run *models.EvaluationRun) error

	// Get returns the run with the given id, or nil.
	Get(ctx context.Context, id string) (*models.EvaluationRun, error)

	// List returns the most recent runs first. A limit of 0 returns all.
	List(ctx context.Context, limit int) ([]*models.EvaluationRun, error)
}

type evaluationRepository struct {
	db DBTX
}

// NewEvaluationRepository creates an evaluation repository.
func NewEvaluationRepository(db DBTX) EvaluationRepository {
	return &evaluationRepository{db: db}
}

const evaluationColumns = `
	id, started_at, duration_ms, train_battles, validation_battles,
	heroes_evaluated, skills_evaluated, best_min_games, best_top_k, best_min_wilson,
	hero_ndcg, hero_coverage, skill_ndcg, skill_coverage, results`

func (r *evaluationRepository) Create(ctx context.Context, run *models.EvaluationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	query := `INSERT INTO evaluation_runs (` + evaluationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt,
		run.DurationMS,
		run.TrainBattles,
		run.ValidationBattles,
		run.HeroesEvaluated,
		run.SkillsEvaluated,
		run.BestMinGames,
		run.BestTopK,
		run.BestMinWilson,
		run.HeroNDCG,
		run.HeroCoverage,
		run.SkillNDCG,
		run.SkillCoverage,
		run.Results,
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation run: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluationRun(row rowScanner) (*models.EvaluationRun, error) {
	run := &models.EvaluationRun{}
	err := row.Scan(
		&run.ID,
		&run.StartedAt,
		&run.DurationMS,
		&run.TrainBattles,
		&run.ValidationBattles,
		&run.HeroesEvaluated,
		&run.SkillsEvaluated,
		&run.BestMinGames,
		&run.BestTopK,
		&run.BestMinWilson,
		&run.HeroNDCG,
		&run.HeroCoverage,
		&run.SkillNDCG,
		&run.SkillCoverage,
		&run.Results,
	)
	return run, err
}

func (r *evaluationRepository) Get(ctx context.Context, id string) (*models.EvaluationRun, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluation_runs WHERE id = ?`
	run, err := scanEvaluationRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation run %s: %w", id, err)
	}
	return run, nil
}

func (r *evaluationRepository) List(ctx context.Context, limit int) ([]*models.EvaluationRun, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluation_runs ORDER BY started_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*models.EvaluationRun
	for rows.Next() {
		run, err := scanEvaluationRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
