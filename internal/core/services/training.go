package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
	"entity-linking-service/internal/trainer"
)

type TrainingRunService struct {
	repo     ports.TrainingRunRepository
	launcher ports.JobLauncher
}

func NewTrainingRunService(repo ports.TrainingRunRepository, launcher ports.JobLauncher) *TrainingRunService {
	return &TrainingRunService{repo: repo, launcher: launcher}
}

type CreateRunRequest struct {
	ProjectID   uuid.UUID
	Name        string
	Description string
	DataPath    string
	OutputPath  string
	CatalogID   *uuid.UUID
	ResumeFrom  string
	Params      domain.Hyperparameters
	Labels      map[string]string
}

func (s *TrainingRunService) Create(ctx context.Context, req CreateRunRequest) (*domain.TrainingRun, error) {
	run, err := domain.NewTrainingRun(req.ProjectID, req.Name, req.DataPath, req.OutputPath, req.Params)
	if err != nil {
		return nil, err
	}
	run.Description = req.Description
	run.CatalogID = req.CatalogID
	run.ResumeFrom = req.ResumeFrom
	if req.Labels != nil {
		run.Labels = req.Labels
	}

	if err := s.repo.Create(ctx, run); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, req.ProjectID, run.ID)
}

func (s *TrainingRunService) Get(ctx context.Context, projectID, id uuid.UUID) (*domain.TrainingRun, error) {
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *TrainingRunService) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.TrainingRun, error) {
	return s.repo.GetByName(ctx, projectID, name)
}

func (s *TrainingRunService) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// LaunchRequest carries the cluster placement knobs for one submission.
type LaunchRequest struct {
	Namespace  string
	GPUs       int
	CPUMillis  int
	MemoryMB   int
	NodeLabels map[string]string
}

// Launch submits a pending run to the configured launcher.
func (s *TrainingRunService) Launch(ctx context.Context, projectID, id uuid.UUID, req LaunchRequest) (*domain.TrainingRun, error) {
	run, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if run.Status == domain.RunStatusRunning {
		return nil, domain.ErrJobAlreadyLaunched
	}
	if run.Status != domain.RunStatusPending {
		return nil, domain.ErrRunNotLaunchable
	}
	if s.launcher == nil || !s.launcher.IsAvailable() {
		return nil, domain.ErrLauncherUnavailable
	}

	spec := ports.BatchJobSpec{
		Name:       fmt.Sprintf("train-%s", run.ID.String()[:8]),
		Namespace:  req.Namespace,
		Args:       trainer.TrainArgs(run),
		OutputPath: run.OutputPath,
		GPUs:       req.GPUs,
		CPUMillis:  req.CPUMillis,
		MemoryMB:   req.MemoryMB,
		NodeLabels: req.NodeLabels,
	}

	externalID, err := s.launcher.Launch(ctx, spec)
	if err != nil {
		run.MarkFailed(err.Error())
		if uerr := s.repo.Update(ctx, projectID, run); uerr != nil {
			return nil, uerr
		}
		return run, nil
	}

	run.MarkRunning(externalID)
	if err := s.repo.Update(ctx, projectID, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Sync reconciles an active run's status with the launcher's view.
func (s *TrainingRunService) Sync(ctx context.Context, projectID, id uuid.UUID, namespace string) (*domain.TrainingRun, error) {
	run, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if !run.IsActive() || run.ExternalID == "" {
		return run, nil
	}
	if s.launcher == nil || !s.launcher.IsAvailable() {
		return nil, domain.ErrLauncherUnavailable
	}

	status, err := s.launcher.Status(ctx, namespace, run.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("query launcher status: %w", err)
	}

	switch status.Phase {
	case ports.JobPhaseSucceeded:
		run.MarkSucceeded()
	case ports.JobPhaseFailed:
		run.MarkFailed(status.Message)
	case ports.JobPhaseRunning, ports.JobPhasePending, ports.JobPhaseUnknown:
		return run, nil
	}

	if err := s.repo.Update(ctx, projectID, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Cancel terminates an active run.
func (s *TrainingRunService) Cancel(ctx context.Context, projectID, id uuid.UUID, namespace string) (*domain.TrainingRun, error) {
	run, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if !run.IsActive() {
		return nil, domain.ErrRunNotCancellable
	}

	if run.ExternalID != "" && s.launcher != nil && s.launcher.IsAvailable() {
		// Ignore error - the job might already be gone.
		_ = s.launcher.Cancel(ctx, namespace, run.ExternalID)
	}

	run.MarkCancelled()
	if err := s.repo.Update(ctx, projectID, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Delete removes a terminal run. Active runs must be cancelled first.
func (s *TrainingRunService) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	run, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return err
	}
	if run.IsActive() {
		return domain.ErrRunStillActive
	}
	return s.repo.Delete(ctx, projectID, id)
}
