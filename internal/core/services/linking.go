package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"entity-linking-service/internal/catalog"
	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
	"entity-linking-service/internal/eval"
	"entity-linking-service/internal/trainer"
)

type LinkingJobService struct {
	repo        ports.LinkingJobRepository
	catalogRepo ports.CatalogRepository
	runRepo     ports.TrainingRunRepository
	launcher    ports.JobLauncher
	store       ports.ArtifactStore
}

func NewLinkingJobService(
	repo ports.LinkingJobRepository,
	catalogRepo ports.CatalogRepository,
	runRepo ports.TrainingRunRepository,
	launcher ports.JobLauncher,
	store ports.ArtifactStore,
) *LinkingJobService {
	return &LinkingJobService{
		repo:        repo,
		catalogRepo: catalogRepo,
		runRepo:     runRepo,
		launcher:    launcher,
		store:       store,
	}
}

type CreateLinkingJobRequest struct {
	ProjectID        uuid.UUID
	CatalogID        uuid.UUID
	TrainingRunID    *uuid.UUID
	MentionsPath     string
	EvalEntitiesPath string
	PredsDir         string
	Mode             domain.MentionMode
	TopK             int
	Threshold        *float64
	Thresholding     domain.Thresholding
	EvalBatchSize    int
}

func (s *LinkingJobService) Create(ctx context.Context, req CreateLinkingJobRequest) (*domain.LinkingJob, error) {
	// Verify the catalogue exists AND belongs to this project.
	if _, err := s.catalogRepo.GetByID(ctx, req.ProjectID, req.CatalogID); err != nil {
		return nil, err
	}
	if req.TrainingRunID != nil {
		if _, err := s.runRepo.GetByID(ctx, req.ProjectID, *req.TrainingRunID); err != nil {
			return nil, err
		}
	}

	if req.TopK == 0 {
		req.TopK = 100
	}
	if req.Mode.RequiresThreshold() && req.Threshold == nil {
		return nil, domain.ErrThresholdRequired
	}

	job, err := domain.NewLinkingJob(req.ProjectID, req.CatalogID, req.MentionsPath, req.PredsDir, req.Mode, req.TopK, req.Thresholding)
	if err != nil {
		return nil, err
	}
	job.TrainingRunID = req.TrainingRunID
	job.EvalEntitiesPath = req.EvalEntitiesPath
	job.Threshold = req.Threshold
	if req.EvalBatchSize > 0 {
		job.EvalBatchSize = req.EvalBatchSize
	}
	if job.PredsDir == "" {
		job.PredsDir = filepath.Join(filepath.Dir(job.MentionsPath), "preds", job.ID.String())
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, req.ProjectID, job.ID)
}

func (s *LinkingJobService) Get(ctx context.Context, projectID, id uuid.UUID) (*domain.LinkingJob, error) {
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *LinkingJobService) List(ctx context.Context, filter ports.JobListFilter) ([]*domain.LinkingJob, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Launch submits a pending linking job. When the predictions directory
// already holds a completed dump, the encoder pass is skipped and the job
// goes straight to ingestion, mirroring the linker's own cache check. The
// mentions dataset is loaded against the catalogue first, so jobs with an
// unreadable or unresolvable dataset fail before anything is submitted.
func (s *LinkingJobService) Launch(ctx context.Context, projectID, id uuid.UUID, req LaunchRequest) (*domain.LinkingJob, error) {
	job, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if job.Status == domain.RunStatusRunning {
		return nil, domain.ErrJobAlreadyLaunched
	}
	if job.Status != domain.RunStatusPending {
		return nil, domain.ErrJobNotLaunchable
	}

	cached, err := s.store.HasPredictions(ctx, job.PredsDir)
	if err != nil {
		return nil, fmt.Errorf("check cached predictions: %w", err)
	}
	if cached {
		return s.Ingest(ctx, projectID, id)
	}

	if s.launcher == nil || !s.launcher.IsAvailable() {
		return nil, domain.ErrLauncherUnavailable
	}

	cat, err := s.catalogRepo.GetByID(ctx, projectID, job.CatalogID)
	if err != nil {
		return nil, err
	}

	_, stats, err := s.store.LoadMentions(ctx, cat.Path, job.EvalEntitiesPath, job.MentionsPath, job.Mode)
	if err != nil {
		job.MarkFailed(fmt.Sprintf("mentions preflight: %v", err))
		if uerr := s.repo.Update(ctx, projectID, job); uerr != nil {
			return nil, uerr
		}
		return job, nil
	}
	if stats.Kept == 0 {
		job.MarkFailed("mentions preflight: no samples resolvable against the catalogue")
		if uerr := s.repo.Update(ctx, projectID, job); uerr != nil {
			return nil, uerr
		}
		return job, nil
	}

	checkpointPath := ""
	if job.TrainingRunID != nil {
		run, err := s.runRepo.GetByID(ctx, projectID, *job.TrainingRunID)
		if err != nil {
			return nil, err
		}
		checkpointPath = run.OutputPath
	}

	spec := ports.BatchJobSpec{
		Name:       fmt.Sprintf("link-%s", job.ID.String()[:8]),
		Namespace:  req.Namespace,
		Args:       trainer.LinkArgs(job, cat, checkpointPath),
		OutputPath: job.PredsDir,
		GPUs:       req.GPUs,
		CPUMillis:  req.CPUMillis,
		MemoryMB:   req.MemoryMB,
		NodeLabels: req.NodeLabels,
	}

	externalID, err := s.launcher.Launch(ctx, spec)
	if err != nil {
		job.MarkFailed(err.Error())
		if uerr := s.repo.Update(ctx, projectID, job); uerr != nil {
			return nil, uerr
		}
		return job, nil
	}

	job.MarkRunning(externalID)
	if err := s.repo.Update(ctx, projectID, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Ingest scores the job's prediction dump and stores the metrics. The
// catalogue load and the predictions read are independent and run
// concurrently.
func (s *LinkingJobService) Ingest(ctx context.Context, projectID, id uuid.UUID) (*domain.LinkingJob, error) {
	job, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	ready, err := s.store.HasPredictions(ctx, job.PredsDir)
	if err != nil {
		return nil, fmt.Errorf("check predictions: %w", err)
	}
	if !ready {
		return nil, domain.ErrPredictionsNotReady
	}

	cat, err := s.catalogRepo.GetByID(ctx, projectID, job.CatalogID)
	if err != nil {
		return nil, err
	}

	var (
		records []eval.PredictionRecord
		runtime float64
		loaded  *catalog.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.ReadPredictions(gctx, job.PredsDir)
		return err
	})
	g.Go(func() error {
		var err error
		runtime, err = s.store.ReadRuntime(gctx, job.PredsDir)
		return err
	})
	g.Go(func() error {
		var err error
		loaded, err = catalog.Load(gctx, cat.Path)
		return err
	})
	if err := g.Wait(); err != nil {
		job.MarkFailed(err.Error())
		if uerr := s.repo.Update(ctx, projectID, job); uerr != nil {
			return nil, uerr
		}
		return job, nil
	}

	report := eval.Score(records, job.TopK, job.Thresholding)
	job.SetMetrics(domain.LinkingMetrics{
		Accuracy:       report.Accuracy,
		RecallAtK:      report.RecallAtK,
		Precision:      report.Precision,
		Recall:         report.Recall,
		F1:             report.F1,
		NumQueries:     report.NumQueries,
		NumPredicted:   report.NumPredicted,
		NumGold:        report.NumGold,
		RuntimeSeconds: runtime,
	})

	// Catalogue stats ride along on successful ingests.
	if !cat.Validated {
		cat.RecordValidation(loaded.Len(), loaded.MissingKBIDs)
		if err := s.catalogRepo.Update(ctx, projectID, cat); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, projectID, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Sync reconciles an active job's status with the launcher. A finished
// encoder pass triggers ingestion.
func (s *LinkingJobService) Sync(ctx context.Context, projectID, id uuid.UUID, namespace string) (*domain.LinkingJob, error) {
	job, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.RunStatusRunning || job.ExternalID == "" {
		return job, nil
	}
	if s.launcher == nil || !s.launcher.IsAvailable() {
		return nil, domain.ErrLauncherUnavailable
	}

	status, err := s.launcher.Status(ctx, namespace, job.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("query launcher status: %w", err)
	}

	switch status.Phase {
	case ports.JobPhaseSucceeded:
		return s.Ingest(ctx, projectID, id)
	case ports.JobPhaseFailed:
		job.MarkFailed(status.Message)
		if err := s.repo.Update(ctx, projectID, job); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// Metrics returns the computed metrics of a finished job.
func (s *LinkingJobService) Metrics(ctx context.Context, projectID, id uuid.UUID) (*domain.LinkingMetrics, error) {
	job, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if job.Metrics == nil {
		return nil, domain.ErrMetricsNotComputed
	}
	return job.Metrics, nil
}
