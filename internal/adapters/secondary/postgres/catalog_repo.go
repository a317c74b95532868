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

type catalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) ports.CatalogRepository {
	return &catalogRepo{pool: pool}
}

const catalogColumns = `
	id, created_at, updated_at, project_id, name, description,
	path, encoding_path, token_ids_path, entity_count, missing_kb_ids,
	encoding_dim, validated, last_validation
`

func (r *catalogRepo) Create(ctx context.Context, cat *domain.EntityCatalog) error {
	query := `
		INSERT INTO entity_catalog
			(id, created_at, updated_at, project_id, name, description,
			 path, encoding_path, token_ids_path, entity_count, missing_kb_ids,
			 encoding_dim, validated, last_validation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	_, err := r.pool.Exec(ctx, query,
		cat.ID, cat.CreatedAt, cat.UpdatedAt, cat.ProjectID,
		cat.Name, cat.Description, cat.Path, cat.EncodingPath,
		cat.TokenIDsPath, cat.EntityCount, cat.MissingKBIDs,
		cat.EncodingDim, cat.Validated, cat.LastValidation,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrCatalogNameConflict
		}
		return fmt.Errorf("create entity catalog: %w", err)
	}
	return nil
}

func (r *catalogRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.EntityCatalog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM entity_catalog
		WHERE id = $1 AND project_id = $2
	`, catalogColumns)

	cat, err := scanCatalog(r.pool.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCatalogNotFound
		}
		return nil, fmt.Errorf("get entity catalog by id: %w", err)
	}
	return cat, nil
}

func (r *catalogRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.EntityCatalog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM entity_catalog
		WHERE name = $1 AND project_id = $2
	`, catalogColumns)

	cat, err := scanCatalog(r.pool.QueryRow(ctx, query, name, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCatalogNotFound
		}
		return nil, fmt.Errorf("get entity catalog by name: %w", err)
	}
	return cat, nil
}

func (r *catalogRepo) Update(ctx context.Context, projectID uuid.UUID, cat *domain.EntityCatalog) error {
	query := `
		UPDATE entity_catalog
		SET name=$1, description=$2, path=$3, encoding_path=$4,
			token_ids_path=$5, entity_count=$6, missing_kb_ids=$7,
			encoding_dim=$8, validated=$9, last_validation=$10, updated_at=NOW()
		WHERE id=$11 AND project_id=$12
	`
	result, err := r.pool.Exec(ctx, query,
		cat.Name, cat.Description, cat.Path, cat.EncodingPath,
		cat.TokenIDsPath, cat.EntityCount, cat.MissingKBIDs,
		cat.EncodingDim, cat.Validated, cat.LastValidation,
		cat.ID, projectID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrCatalogNameConflict
		}
		return fmt.Errorf("update entity catalog: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCatalogNotFound
	}
	return nil
}

func (r *catalogRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM entity_catalog WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return fmt.Errorf("delete entity catalog: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCatalogNotFound
	}
	return nil
}

func (r *catalogRepo) List(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*domain.EntityCatalog, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entity_catalog WHERE project_id = $1`, projectID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entity catalogs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM entity_catalog
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, catalogColumns)

	rows, err := r.pool.Query(ctx, query, projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list entity catalogs: %w", err)
	}
	defer rows.Close()

	var cats []*domain.EntityCatalog
	for rows.Next() {
		cat, err := scanCatalog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entity catalog row: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate entity catalog rows: %w", err)
	}

	return cats, total, nil
}

func scanCatalog(row pgx.Row) (*domain.EntityCatalog, error) {
	cat := &domain.EntityCatalog{}
	err := row.Scan(
		&cat.ID, &cat.CreatedAt, &cat.UpdatedAt, &cat.ProjectID,
		&cat.Name, &cat.Description, &cat.Path, &cat.EncodingPath,
		&cat.TokenIDsPath, &cat.EntityCount, &cat.MissingKBIDs,
		&cat.EncodingDim, &cat.Validated, &cat.LastValidation,
	)
	if err != nil {
		return nil, err
	}
	return cat, nil
}
