package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
	"entity-linking-service/internal/testutil"
)

func floatPtr(f float64) *float64 { return &f }

// ============================================================================
// Refresh Tests
// ============================================================================

func TestCheckpointService_Refresh_RecordsNewEpochs(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	projectID := uuid.New()
	run := newTestRun(t, projectID)

	repo.On("ListByRun", mock.Anything, run.ID).Return([]*domain.Checkpoint{}, nil)
	runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	store.On("ListEpochs", mock.Anything, run.OutputPath).Return([]ports.EpochArtifact{
		{Epoch: 0, Path: run.OutputPath + "/epoch_0", EvalAccuracy: floatPtr(0.61), Resumable: true},
		{Epoch: 1, Path: run.OutputPath + "/epoch_1", Resumable: true},
	}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Checkpoint")).Return(nil).Twice()

	_, err := svc.Refresh(context.Background(), projectID, run.ID)

	assert.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestCheckpointService_Refresh_UpdatesAccuracy(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	projectID := uuid.New()
	run := newTestRun(t, projectID)
	cp, err := domain.NewCheckpoint(run.ID, 0, run.OutputPath+"/epoch_0")
	assert.NoError(t, err)

	runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	repo.On("ListByRun", mock.Anything, run.ID).Return([]*domain.Checkpoint{cp}, nil)
	store.On("ListEpochs", mock.Anything, run.OutputPath).Return([]ports.EpochArtifact{
		{Epoch: 0, Path: cp.Path, EvalAccuracy: floatPtr(0.73)},
	}, nil)
	repo.On("Update", mock.Anything, cp).Return(nil)

	_, err = svc.Refresh(context.Background(), projectID, run.ID)

	assert.NoError(t, err)
	assert.NotNil(t, cp.EvalAccuracy)
	assert.Equal(t, 0.73, *cp.EvalAccuracy)
}

// ============================================================================
// Get Tests
// ============================================================================

func TestCheckpointService_Get(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	projectID := uuid.New()
	run := newTestRun(t, projectID)
	cp, err := domain.NewCheckpoint(run.ID, 0, run.OutputPath+"/epoch_0")
	assert.NoError(t, err)

	repo.On("GetByID", mock.Anything, cp.ID).Return(cp, nil)
	runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	got, err := svc.Get(context.Background(), projectID, cp.ID)

	assert.NoError(t, err)
	assert.Equal(t, cp.ID, got.ID)
	runRepo.AssertExpectations(t)
}

func TestCheckpointService_Get_OtherProject(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	owner := uuid.New()
	caller := uuid.New()
	run := newTestRun(t, owner)
	cp, err := domain.NewCheckpoint(run.ID, 0, run.OutputPath+"/epoch_0")
	assert.NoError(t, err)

	repo.On("GetByID", mock.Anything, cp.ID).Return(cp, nil)
	// The owning run is invisible under the caller's project.
	runRepo.On("GetByID", mock.Anything, caller, run.ID).Return(nil, domain.ErrTrainingRunNotFound)

	_, err = svc.Get(context.Background(), caller, cp.ID)

	assert.ErrorIs(t, err, domain.ErrCheckpointNotFound)
}

// ============================================================================
// PromoteBest Tests
// ============================================================================

func TestCheckpointService_PromoteBest(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	projectID := uuid.New()
	run := newTestRun(t, projectID)
	run.MarkRunning("job-1")
	run.MarkSucceeded()

	cp0, _ := domain.NewCheckpoint(run.ID, 0, run.OutputPath+"/epoch_0")
	cp0.SetAccuracy(0.61)
	cp1, _ := domain.NewCheckpoint(run.ID, 1, run.OutputPath+"/epoch_1")
	cp1.SetAccuracy(0.73)

	runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	store.On("ListEpochs", mock.Anything, run.OutputPath).Return([]ports.EpochArtifact{}, nil)
	repo.On("ListByRun", mock.Anything, run.ID).Return([]*domain.Checkpoint{cp0, cp1}, nil)
	store.On("Promote", mock.Anything, run.OutputPath, 1).Return(nil)
	repo.On("Update", mock.Anything, cp1).Return(nil)
	runRepo.On("Update", mock.Anything, projectID, run).Return(nil)

	best, err := svc.PromoteBest(context.Background(), projectID, run.ID)

	assert.NoError(t, err)
	assert.Equal(t, 1, best.Epoch)
	assert.True(t, best.Promoted)
	assert.NotNil(t, run.BestEpoch)
	assert.Equal(t, 1, *run.BestEpoch)
}

func TestCheckpointService_PromoteBest_DirtyRoot(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	projectID := uuid.New()
	run := newTestRun(t, projectID)
	run.MarkRunning("job-1")
	run.MarkSucceeded()

	cp0, _ := domain.NewCheckpoint(run.ID, 0, run.OutputPath+"/epoch_0")
	cp0.SetAccuracy(0.61)
	cp0.Promoted = true
	cp1, _ := domain.NewCheckpoint(run.ID, 1, run.OutputPath+"/epoch_1")
	cp1.SetAccuracy(0.73)

	runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	store.On("ListEpochs", mock.Anything, run.OutputPath).Return([]ports.EpochArtifact{}, nil)
	repo.On("ListByRun", mock.Anything, run.ID).Return([]*domain.Checkpoint{cp0, cp1}, nil)

	_, err := svc.PromoteBest(context.Background(), projectID, run.ID)

	assert.ErrorIs(t, err, domain.ErrPromotionTargetDirty)
	store.AssertNotCalled(t, "Promote")
}

func TestCheckpointService_PromoteBest_RunNotFinished(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	projectID := uuid.New()
	run := newTestRun(t, projectID)
	run.MarkRunning("job-1")

	runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	_, err := svc.PromoteBest(context.Background(), projectID, run.ID)

	assert.ErrorIs(t, err, domain.ErrRunNotFinished)
	store.AssertNotCalled(t, "Promote")
}

func TestCheckpointService_PromoteBest_NoScoredEpochs(t *testing.T) {
	repo := new(testutil.MockCheckpointRepo)
	runRepo := new(testutil.MockTrainingRunRepo)
	store := new(testutil.MockArtifactStore)
	svc := NewCheckpointService(repo, runRepo, store)

	projectID := uuid.New()
	run := newTestRun(t, projectID)
	run.MarkRunning("job-1")
	run.MarkSucceeded()

	cp, _ := domain.NewCheckpoint(run.ID, 0, run.OutputPath+"/epoch_0")

	runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	store.On("ListEpochs", mock.Anything, run.OutputPath).Return([]ports.EpochArtifact{}, nil)
	repo.On("ListByRun", mock.Anything, run.ID).Return([]*domain.Checkpoint{cp}, nil)

	_, err := svc.PromoteBest(context.Background(), projectID, run.ID)

	assert.ErrorIs(t, err, domain.ErrNoPromotableEpoch)
}
