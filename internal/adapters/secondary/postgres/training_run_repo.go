package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
)

type trainingRunRepo struct {
	pool *pgxpool.Pool
}

func NewTrainingRunRepository(pool *pgxpool.Pool) ports.TrainingRunRepository {
	return &trainingRunRepo{pool: pool}
}

func (r *trainingRunRepo) Create(ctx context.Context, run *domain.TrainingRun) error {
	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	labelsJSON, err := json.Marshal(run.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		INSERT INTO training_run
			(id, created_at, updated_at, project_id, name, description,
			 data_path, output_path, catalog_id, params, effective_batch_size,
			 status, external_id, last_error, resume_from, best_epoch,
			 best_accuracy, started_at, finished_at, labels)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`
	_, err = r.pool.Exec(ctx, query,
		run.ID, run.CreatedAt, run.UpdatedAt, run.ProjectID,
		run.Name, run.Description, run.DataPath, run.OutputPath,
		run.CatalogID, paramsJSON, run.EffectiveBatchSize, string(run.Status),
		run.ExternalID, run.LastError, run.ResumeFrom, run.BestEpoch,
		run.BestAccuracy, run.StartedAt, run.FinishedAt, labelsJSON,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrTrainingRunNameConflict
		}
		return fmt.Errorf("create training run: %w", err)
	}
	return nil
}

const trainingRunColumns = `
	id, created_at, updated_at, project_id, name, description,
	data_path, output_path, catalog_id, params, effective_batch_size,
	status, external_id, last_error, resume_from, best_epoch,
	best_accuracy, started_at, finished_at, labels
`

func (r *trainingRunRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.TrainingRun, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM training_run
		WHERE id = $1 AND project_id = $2
	`, trainingRunColumns)

	run, err := scanTrainingRun(r.pool.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTrainingRunNotFound
		}
		return nil, fmt.Errorf("get training run by id: %w", err)
	}
	return run, nil
}

func (r *trainingRunRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.TrainingRun, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM training_run
		WHERE name = $1 AND project_id = $2
	`, trainingRunColumns)

	run, err := scanTrainingRun(r.pool.QueryRow(ctx, query, name, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTrainingRunNotFound
		}
		return nil, fmt.Errorf("get training run by name: %w", err)
	}
	return run, nil
}

func (r *trainingRunRepo) Update(ctx context.Context, projectID uuid.UUID, run *domain.TrainingRun) error {
	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	labelsJSON, err := json.Marshal(run.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		UPDATE training_run
		SET name=$1, description=$2, data_path=$3, output_path=$4,
			catalog_id=$5, params=$6, effective_batch_size=$7, status=$8,
			external_id=$9, last_error=$10, resume_from=$11, best_epoch=$12,
			best_accuracy=$13, started_at=$14, finished_at=$15, labels=$16,
			updated_at=NOW()
		WHERE id=$17 AND project_id=$18
	`
	result, err := r.pool.Exec(ctx, query,
		run.Name, run.Description, run.DataPath, run.OutputPath,
		run.CatalogID, paramsJSON, run.EffectiveBatchSize, string(run.Status),
		run.ExternalID, run.LastError, run.ResumeFrom, run.BestEpoch,
		run.BestAccuracy, run.StartedAt, run.FinishedAt, labelsJSON,
		run.ID, projectID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrTrainingRunNameConflict
		}
		return fmt.Errorf("update training run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTrainingRunNotFound
	}
	return nil
}

func (r *trainingRunRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM training_run WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return fmt.Errorf("delete training run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTrainingRunNotFound
	}
	return nil
}

func (r *trainingRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.ProjectID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM training_run WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count training runs: %w", err)
	}

	orderBy := "created_at DESC"
	if filter.SortBy != "" {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", filter.SortBy, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM training_run
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, trainingRunColumns, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list training runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.TrainingRun
	for rows.Next() {
		run, err := scanTrainingRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan training run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate training run rows: %w", err)
	}

	return runs, total, nil
}

func scanTrainingRun(row pgx.Row) (*domain.TrainingRun, error) {
	run := &domain.TrainingRun{}
	var paramsJSON, labelsJSON []byte
	var status string

	err := row.Scan(
		&run.ID, &run.CreatedAt, &run.UpdatedAt, &run.ProjectID,
		&run.Name, &run.Description, &run.DataPath, &run.OutputPath,
		&run.CatalogID, &paramsJSON, &run.EffectiveBatchSize, &status,
		&run.ExternalID, &run.LastError, &run.ResumeFrom, &run.BestEpoch,
		&run.BestAccuracy, &run.StartedAt, &run.FinishedAt, &labelsJSON,
	)
	if err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)

	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &run.Params); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
	}
	if len(labelsJSON) > 0 {
		if err := json.Unmarshal(labelsJSON, &run.Labels); err != nil {
			return nil, fmt.Errorf("unmarshal labels: %w", err)
		}
	}
	return run, nil
}
