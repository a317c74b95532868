package ports

import (
	"context"

	"github.com/google/uuid"

	"entity-linking-service/internal/core/domain"
)

type RunListFilter struct {
	ProjectID uuid.UUID
	Status    string
	Search    string
	SortBy    string
	Order     string
	Limit     int
	Offset    int
}

type JobListFilter struct {
	ProjectID     uuid.UUID
	TrainingRunID *uuid.UUID
	CatalogID     *uuid.UUID
	Status        string
	Limit         int
	Offset        int
}

type TrainingRunRepository interface {
	Create(ctx context.Context, run *domain.TrainingRun) error
	GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.TrainingRun, error)
	GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.TrainingRun, error)
	Update(ctx context.Context, projectID uuid.UUID, run *domain.TrainingRun) error
	Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter RunListFilter) ([]*domain.TrainingRun, int, error)
}

type CheckpointRepository interface {
	Create(ctx context.Context, cp *domain.Checkpoint) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error)
	Update(ctx context.Context, cp *domain.Checkpoint) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.Checkpoint, error)
	DeleteByRun(ctx context.Context, runID uuid.UUID) error
}

type LinkingJobRepository interface {
	Create(ctx context.Context, job *domain.LinkingJob) error
	GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.LinkingJob, error)
	Update(ctx context.Context, projectID uuid.UUID, job *domain.LinkingJob) error
	List(ctx context.Context, filter JobListFilter) ([]*domain.LinkingJob, int, error)
	CountByCatalog(ctx context.Context, catalogID uuid.UUID) (int, error)
}

type CatalogRepository interface {
	Create(ctx context.Context, catalog *domain.EntityCatalog) error
	GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.EntityCatalog, error)
	GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.EntityCatalog, error)
	Update(ctx context.Context, projectID uuid.UUID, catalog *domain.EntityCatalog) error
	Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*domain.EntityCatalog, int, error)
}
