package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
	"entity-linking-service/internal/dataset"
	"entity-linking-service/internal/eval"
)

// MockLauncher is a mock of JobLauncher.
type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockLauncher) Launch(ctx context.Context, spec ports.BatchJobSpec) (string, error) {
	args := m.Called(ctx, spec)
	return args.String(0), args.Error(1)
}

func (m *MockLauncher) Status(ctx context.Context, namespace, externalID string) (*ports.JobStatus, error) {
	args := m.Called(ctx, namespace, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.JobStatus), args.Error(1)
}

func (m *MockLauncher) Cancel(ctx context.Context, namespace, externalID string) error {
	args := m.Called(ctx, namespace, externalID)
	return args.Error(0)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) ListEpochs(ctx context.Context, outputPath string) ([]ports.EpochArtifact, error) {
	args := m.Called(ctx, outputPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.EpochArtifact), args.Error(1)
}

func (m *MockArtifactStore) Promote(ctx context.Context, outputPath string, epoch int) error {
	args := m.Called(ctx, outputPath, epoch)
	return args.Error(0)
}

func (m *MockArtifactStore) HasPredictions(ctx context.Context, predsDir string) (bool, error) {
	args := m.Called(ctx, predsDir)
	return args.Bool(0), args.Error(1)
}

func (m *MockArtifactStore) ReadRuntime(ctx context.Context, predsDir string) (float64, error) {
	args := m.Called(ctx, predsDir)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockArtifactStore) ReadPredictions(ctx context.Context, predsDir string) ([]eval.PredictionRecord, error) {
	args := m.Called(ctx, predsDir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]eval.PredictionRecord), args.Error(1)
}

func (m *MockArtifactStore) LoadMentions(ctx context.Context, catalogPath, entitiesPath, mentionsPath string, mode domain.MentionMode) ([]dataset.Sample, dataset.Stats, error) {
	args := m.Called(ctx, catalogPath, entitiesPath, mentionsPath, mode)
	if args.Get(0) == nil {
		return nil, args.Get(1).(dataset.Stats), args.Error(2)
	}
	return args.Get(0).([]dataset.Sample), args.Get(1).(dataset.Stats), args.Error(2)
}
