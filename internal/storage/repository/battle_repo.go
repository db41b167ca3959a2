package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ramonehamilton/draft-advisor/internal/storage/models"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BattleRepository stores battle records.
type BattleRepository interface {
	// Upsert inserts a battle or replaces the one with the same source id.
	// A new row gets a generated id; an existing row keeps its id.
	Upsert(ctx context.Context, battle *models.Battle) error

	// GetBySourceID returns the battle with the given source id, or nil.
	GetBySourceID(ctx context.Context, sourceID string) (*models.Battle, error)

	// List returns every battle ordered by recorded time, then source id.
	List(ctx context.Context) ([]*models.Battle, error)

	// Count returns the number of stored battles.
	Count(ctx context.Context) (int, error)

	// Delete removes the battle with the given source id.
	Delete(ctx context.Context, sourceID string) error
}

type battleRepository struct {
	db DBTX
}

// NewBattleRepository creates a battle repository.
func NewBattleRepository(db DBTX) BattleRepository {
	return &battleRepository{db: db}
}

func (r *battleRepository) Upsert(ctx context.Context, battle *models.Battle) error {
	if battle.ID == "" {
		battle.ID = uuid.NewString()
	}

	query := `
		INSERT INTO battles (id, source_id, recorded_at, winner, payload, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			recorded_at = excluded.recorded_at,
			winner = excluded.winner,
			payload = excluded.payload,
			imported_at = excluded.imported_at
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		battle.ID,
		battle.SourceID,
		battle.RecordedAt,
		battle.Winner,
		battle.Payload,
		battle.ImportedAt,
	).Scan(&battle.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert battle %s: %w", battle.SourceID, err)
	}
	return nil
}

func (r *battleRepository) GetBySourceID(ctx context.Context, sourceID string) (*models.Battle, error) {
	query := `
		SELECT id, source_id, recorded_at, winner, payload, imported_at
		FROM battles
		WHERE source_id = ?
	`
	b := &models.Battle{}
	err := r.db.QueryRowContext(ctx, query, sourceID).Scan(
		&b.ID,
		&b.SourceID,
		&b.RecordedAt,
		&b.Winner,
		&b.Payload,
		&b.ImportedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get battle %s: %w", sourceID, err)
	}
	return b, nil
}

func (r *battleRepository) List(ctx context.Context) ([]*models.Battle, error) {
	query := `
		SELECT id, source_id, recorded_at, winner, payload, imported_at
		FROM battles
		ORDER BY recorded_at ASC, source_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var battles []*models.Battle
	for rows.Next() {
		b := &models.Battle{}
		if err := rows.Scan(
			&b.ID,
			&b.SourceID,
			&b.RecordedAt,
			&b.Winner,
			&b.Payload,
			&b.ImportedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan battle: %w", err)
		}
		battles = append(battles, b)
	}
	return battles, rows.Err()
}

func (r *battleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM battles`).Scan(&count)
	return count, err
}

func (r *battleRepository) Delete(ctx context.Context, sourceID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM battles WHERE source_id = ?`, sourceID)
	return err
}
