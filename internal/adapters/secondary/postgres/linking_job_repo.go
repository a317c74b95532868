package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
)

type linkingJobRepo struct {
	pool *pgxpool.Pool
}

func NewLinkingJobRepository(pool *pgxpool.Pool) ports.LinkingJobRepository {
	return &linkingJobRepo{pool: pool}
}

const linkingJobColumns = `
	id, created_at, updated_at, project_id, training_run_id, catalog_id,
	mentions_path, eval_entities_path, preds_dir, mode, top_k, threshold,
	thresholding, eval_batch_size, status, external_id, last_error, metrics
`

func (r *linkingJobRepo) Create(ctx context.Context, job *domain.LinkingJob) error {
	metricsJSON, err := marshalMetrics(job.Metrics)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO linking_job
			(id, created_at, updated_at, project_id, training_run_id, catalog_id,
			 mentions_path, eval_entities_path, preds_dir, mode, top_k, threshold,
			 thresholding, eval_batch_size, status, external_id, last_error, metrics)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`
	_, err = r.pool.Exec(ctx, query,
		job.ID, job.CreatedAt, job.UpdatedAt, job.ProjectID,
		job.TrainingRunID, job.CatalogID, job.MentionsPath,
		job.EvalEntitiesPath, job.PredsDir, string(job.Mode), job.TopK,
		job.Threshold, string(job.Thresholding), job.EvalBatchSize,
		string(job.Status), job.ExternalID, job.LastError, metricsJSON,
	)
	if err != nil {
		return fmt.Errorf("create linking job: %w", err)
	}
	return nil
}

func (r *linkingJobRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.LinkingJob, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM linking_job
		WHERE id = $1 AND project_id = $2
	`, linkingJobColumns)

	job, err := scanLinkingJob(r.pool.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLinkingJobNotFound
		}
		return nil, fmt.Errorf("get linking job by id: %w", err)
	}
	return job, nil
}

func (r *linkingJobRepo) Update(ctx context.Context, projectID uuid.UUID, job *domain.LinkingJob) error {
	metricsJSON, err := marshalMetrics(job.Metrics)
	if err != nil {
		return err
	}

	query := `
		UPDATE linking_job
		SET eval_entities_path=$1, preds_dir=$2, mode=$3, top_k=$4,
			threshold=$5, thresholding=$6, eval_batch_size=$7, status=$8,
			external_id=$9, last_error=$10, metrics=$11, updated_at=NOW()
		WHERE id=$12 AND project_id=$13
	`
	result, err := r.pool.Exec(ctx, query,
		job.EvalEntitiesPath, job.PredsDir, string(job.Mode), job.TopK,
		job.Threshold, string(job.Thresholding), job.EvalBatchSize,
		string(job.Status), job.ExternalID, job.LastError, metricsJSON,
		job.ID, projectID,
	)
	if err != nil {
		return fmt.Errorf("update linking job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrLinkingJobNotFound
	}
	return nil
}

func (r *linkingJobRepo) List(ctx context.Context, filter ports.JobListFilter) ([]*domain.LinkingJob, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.ProjectID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}
	if filter.TrainingRunID != nil {
		conditions = append(conditions, fmt.Sprintf("training_run_id = $%d", argPos))
		args = append(args, *filter.TrainingRunID)
		argPos++
	}
	if filter.CatalogID != nil {
		conditions = append(conditions, fmt.Sprintf("catalog_id = $%d", argPos))
		args = append(args, *filter.CatalogID)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM linking_job WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count linking jobs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM linking_job
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, linkingJobColumns, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list linking jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.LinkingJob
	for rows.Next() {
		job, err := scanLinkingJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan linking job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate linking job rows: %w", err)
	}

	return jobs, total, nil
}

func (r *linkingJobRepo) CountByCatalog(ctx context.Context, catalogID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM linking_job WHERE catalog_id = $1`, catalogID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count linking jobs by catalog: %w", err)
	}
	return n, nil
}

func marshalMetrics(m *domain.LinkingMetrics) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metrics: %w", err)
	}
	return b, nil
}

func scanLinkingJob(row pgx.Row) (*domain.LinkingJob, error) {
	job := &domain.LinkingJob{}
	var metricsJSON []byte
	var mode, thresholding, status string

	err := row.Scan(
		&job.ID, &job.CreatedAt, &job.UpdatedAt, &job.ProjectID,
		&job.TrainingRunID, &job.CatalogID, &job.MentionsPath,
		&job.EvalEntitiesPath, &job.PredsDir, &mode, &job.TopK,
		&job.Threshold, &thresholding, &job.EvalBatchSize, &status,
		&job.ExternalID, &job.LastError, &metricsJSON,
	)
	if err != nil {
		return nil, err
	}
	job.Mode = domain.MentionMode(mode)
	job.Thresholding = domain.Thresholding(thresholding)
	job.Status = domain.RunStatus(status)

	if len(metricsJSON) > 0 {
		job.Metrics = &domain.LinkingMetrics{}
		if err := json.Unmarshal(metricsJSON, job.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
	}
	return job, nil
}
