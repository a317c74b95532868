package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
)

// MockTrainingRunRepo is a mock of TrainingRunRepository.
type MockTrainingRunRepo struct {
	mock.Mock
}

func (m *MockTrainingRunRepo) Create(ctx context.Context, run *domain.TrainingRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockTrainingRunRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.TrainingRun, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingRun), args.Error(1)
}

func (m *MockTrainingRunRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.TrainingRun, error) {
	args := m.Called(ctx, projectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingRun), args.Error(1)
}

func (m *MockTrainingRunRepo) Update(ctx context.Context, projectID uuid.UUID, run *domain.TrainingRun) error {
	args := m.Called(ctx, projectID, run)
	return args.Error(0)
}

func (m *MockTrainingRunRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, projectID, id)
	return args.Error(0)
}

func (m *MockTrainingRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.TrainingRun), args.Int(1), args.Error(2)
}

// MockCheckpointRepo is a mock of CheckpointRepository.
type MockCheckpointRepo struct {
	mock.Mock
}

func (m *MockCheckpointRepo) Create(ctx context.Context, cp *domain.Checkpoint) error {
	args := m.Called(ctx, cp)
	return args.Error(0)
}

func (m *MockCheckpointRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkpoint), args.Error(1)
}

func (m *MockCheckpointRepo) Update(ctx context.Context, cp *domain.Checkpoint) error {
	args := m.Called(ctx, cp)
	return args.Error(0)
}

func (m *MockCheckpointRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.Checkpoint, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Checkpoint), args.Error(1)
}

func (m *MockCheckpointRepo) DeleteByRun(ctx context.Context, runID uuid.UUID) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

// MockLinkingJobRepo is a mock of LinkingJobRepository.
type MockLinkingJobRepo struct {
	mock.Mock
}

func (m *MockLinkingJobRepo) Create(ctx context.Context, job *domain.LinkingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockLinkingJobRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.LinkingJob, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkingJob), args.Error(1)
}

func (m *MockLinkingJobRepo) Update(ctx context.Context, projectID uuid.UUID, job *domain.LinkingJob) error {
	args := m.Called(ctx, projectID, job)
	return args.Error(0)
}

func (m *MockLinkingJobRepo) List(ctx context.Context, filter ports.JobListFilter) ([]*domain.LinkingJob, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.LinkingJob), args.Int(1), args.Error(2)
}

func (m *MockLinkingJobRepo) CountByCatalog(ctx context.Context, catalogID uuid.UUID) (int, error) {
	args := m.Called(ctx, catalogID)
	return args.Int(0), args.Error(1)
}

// MockCatalogRepo is a mock of CatalogRepository.
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) Create(ctx context.Context, catalog *domain.EntityCatalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

func (m *MockCatalogRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.EntityCatalog, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntityCatalog), args.Error(1)
}

func (m *MockCatalogRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.EntityCatalog, error) {
	args := m.Called(ctx, projectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntityCatalog), args.Error(1)
}

func (m *MockCatalogRepo) Update(ctx context.Context, projectID uuid.UUID, catalog *domain.EntityCatalog) error {
	args := m.Called(ctx, projectID, catalog)
	return args.Error(0)
}

func (m *MockCatalogRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, projectID, id)
	return args.Error(0)
}

func (m *MockCatalogRepo) List(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*domain.EntityCatalog, int, error) {
	args := m.Called(ctx, projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.EntityCatalog), args.Int(1), args.Error(2)
}
