package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
)

type checkpointRepo struct {
	pool *pgxpool.Pool
}

func NewCheckpointRepository(pool *pgxpool.Pool) ports.CheckpointRepository {
	return &checkpointRepo{pool: pool}
}

func (r *checkpointRepo) Create(ctx context.Context, cp *domain.Checkpoint) error {
	query := `
		INSERT INTO checkpoint
			(id, created_at, updated_at, training_run_id, epoch, path,
			 eval_accuracy, resumable, promoted, promoted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.pool.Exec(ctx, query,
		cp.ID, cp.CreatedAt, cp.UpdatedAt, cp.TrainingRunID,
		cp.Epoch, cp.Path, cp.EvalAccuracy, cp.Resumable,
		cp.Promoted, cp.PromotedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrCheckpointConflict
		}
		return fmt.Errorf("create checkpoint: %w", err)
	}
	return nil
}

func (r *checkpointRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error) {
	query := `
		SELECT id, created_at, updated_at, training_run_id, epoch, path,
			   eval_accuracy, resumable, promoted, promoted_at
		FROM checkpoint
		WHERE id = $1
	`
	cp, err := scanCheckpoint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("get checkpoint by id: %w", err)
	}
	return cp, nil
}

func (r *checkpointRepo) Update(ctx context.Context, cp *domain.Checkpoint) error {
	query := `
		UPDATE checkpoint
		SET path=$1, eval_accuracy=$2, resumable=$3, promoted=$4,
			promoted_at=$5, updated_at=NOW()
		WHERE id=$6
	`
	result, err := r.pool.Exec(ctx, query,
		cp.Path, cp.EvalAccuracy, cp.Resumable, cp.Promoted, cp.PromotedAt, cp.ID,
	)
	if err != nil {
		return fmt.Errorf("update checkpoint: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCheckpointNotFound
	}
	return nil
}

func (r *checkpointRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.Checkpoint, error) {
	query := `
		SELECT id, created_at, updated_at, training_run_id, epoch, path,
			   eval_accuracy, resumable, promoted, promoted_at
		FROM checkpoint
		WHERE training_run_id = $1
		ORDER BY epoch ASC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var cps []*domain.Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkpoint row: %w", err)
		}
		cps = append(cps, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoint rows: %w", err)
	}
	return cps, nil
}

func (r *checkpointRepo) DeleteByRun(ctx context.Context, runID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM checkpoint WHERE training_run_id = $1`, runID); err != nil {
		return fmt.Errorf("delete checkpoints: %w", err)
	}
	return nil
}

func scanCheckpoint(row pgx.Row) (*domain.Checkpoint, error) {
	cp := &domain.Checkpoint{}
	err := row.Scan(
		&cp.ID, &cp.CreatedAt, &cp.UpdatedAt, &cp.TrainingRunID,
		&cp.Epoch, &cp.Path, &cp.EvalAccuracy, &cp.Resumable,
		&cp.Promoted, &cp.PromotedAt,
	)
	if err != nil {
		return nil, err
	}
	return cp, nil
}
