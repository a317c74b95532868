package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
)

type CheckpointService struct {
	repo    ports.CheckpointRepository
	runRepo ports.TrainingRunRepository
	store   ports.ArtifactStore
}

func NewCheckpointService(repo ports.CheckpointRepository, runRepo ports.TrainingRunRepository, store ports.ArtifactStore) *CheckpointService {
	return &CheckpointService{repo: repo, runRepo: runRepo, store: store}
}

// Refresh rescans the run's output directory for epoch checkpoints and
// records new epochs and freshly available eval accuracies.
func (s *CheckpointService) Refresh(ctx context.Context, projectID, runID uuid.UUID) ([]*domain.Checkpoint, error) {
	run, err := s.runRepo.GetByID(ctx, projectID, runID)
	if err != nil {
		return nil, err
	}

	epochs, err := s.store.ListEpochs(ctx, run.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("scan checkpoints: %w", err)
	}

	existing, err := s.repo.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	byEpoch := make(map[int]*domain.Checkpoint, len(existing))
	for _, cp := range existing {
		byEpoch[cp.Epoch] = cp
	}

	for _, ep := range epochs {
		cp, ok := byEpoch[ep.Epoch]
		if !ok {
			cp, err = domain.NewCheckpoint(runID, ep.Epoch, ep.Path)
			if err != nil {
				return nil, err
			}
			cp.Resumable = ep.Resumable
			if ep.EvalAccuracy != nil {
				cp.SetAccuracy(*ep.EvalAccuracy)
			}
			if err := s.repo.Create(ctx, cp); err != nil {
				return nil, err
			}
			byEpoch[ep.Epoch] = cp
			continue
		}

		changed := false
		if ep.EvalAccuracy != nil && (cp.EvalAccuracy == nil || *cp.EvalAccuracy != *ep.EvalAccuracy) {
			cp.SetAccuracy(*ep.EvalAccuracy)
			changed = true
		}
		if ep.Resumable != cp.Resumable {
			cp.Resumable = ep.Resumable
			changed = true
		}
		if changed {
			if err := s.repo.Update(ctx, cp); err != nil {
				return nil, err
			}
		}
	}

	return s.repo.ListByRun(ctx, runID)
}

func (s *CheckpointService) List(ctx context.Context, projectID, runID uuid.UUID) ([]*domain.Checkpoint, error) {
	if _, err := s.runRepo.GetByID(ctx, projectID, runID); err != nil {
		return nil, err
	}
	return s.repo.ListByRun(ctx, runID)
}

// Get fetches a checkpoint, verifying through its training run that it
// belongs to the caller's project.
func (s *CheckpointService) Get(ctx context.Context, projectID, id uuid.UUID) (*domain.Checkpoint, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.runRepo.GetByID(ctx, projectID, cp.TrainingRunID); err != nil {
		if errors.Is(err, domain.ErrTrainingRunNotFound) {
			return nil, domain.ErrCheckpointNotFound
		}
		return nil, err
	}
	return cp, nil
}

// PromoteBest copies the best epoch's model files into the run root and
// records the choice on the run. Only finished runs can be promoted.
func (s *CheckpointService) PromoteBest(ctx context.Context, projectID, runID uuid.UUID) (*domain.Checkpoint, error) {
	run, err := s.runRepo.GetByID(ctx, projectID, runID)
	if err != nil {
		return nil, err
	}
	if !run.Status.IsTerminal() {
		return nil, domain.ErrRunNotFinished
	}

	cps, err := s.Refresh(ctx, projectID, runID)
	if err != nil {
		return nil, err
	}

	best := domain.BestCheckpoint(cps)
	if best == nil {
		return nil, domain.ErrNoPromotableEpoch
	}

	// Re-promoting the same epoch is idempotent; a run root holding another
	// epoch's files must be cleaned up first.
	for _, cp := range cps {
		if cp.Promoted && cp.Epoch != best.Epoch {
			return nil, domain.ErrPromotionTargetDirty
		}
	}

	if err := s.store.Promote(ctx, run.OutputPath, best.Epoch); err != nil {
		return nil, fmt.Errorf("promote checkpoint: %w", err)
	}

	best.MarkPromoted()
	if err := s.repo.Update(ctx, best); err != nil {
		return nil, err
	}

	run.RecordBest(best.Epoch, *best.EvalAccuracy)
	if err := s.runRepo.Update(ctx, projectID, run); err != nil {
		return nil, err
	}

	return best, nil
}
