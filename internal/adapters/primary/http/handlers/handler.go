package handlers

import (
	"entity-linking-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	runSvc        *services.TrainingRunService
	checkpointSvc *services.CheckpointService
	jobSvc        *services.LinkingJobService
	catalogSvc    *services.CatalogService
}

func New(
	runSvc *services.TrainingRunService,
	checkpointSvc *services.CheckpointService,
	jobSvc *services.LinkingJobService,
	catalogSvc *services.CatalogService,
) *Handler {
	return &Handler{
		runSvc:        runSvc,
		checkpointSvc: checkpointSvc,
		jobSvc:        jobSvc,
		catalogSvc:    catalogSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Training Runs
	r.GET("/training_runs", h.ListTrainingRuns)
	r.GET("/training_runs/:id", h.GetTrainingRun)
	r.GET("/training_run", h.GetTrainingRunByName)
	r.POST("/training_runs", h.CreateTrainingRun)
	r.POST("/training_runs/:id/launch", h.LaunchTrainingRun)
	r.POST("/training_runs/:id/sync", h.SyncTrainingRun)
	r.POST("/training_runs/:id/cancel", h.CancelTrainingRun)
	r.DELETE("/training_runs/:id", h.DeleteTrainingRun)

	// Checkpoints (nested under run)
	r.GET("/training_runs/:id/checkpoints", h.ListCheckpoints)
	r.POST("/training_runs/:id/checkpoints/refresh", h.RefreshCheckpoints)
	r.POST("/training_runs/:id/promote", h.PromoteBestCheckpoint)
	r.GET("/checkpoints/:id", h.GetCheckpoint)

	// Linking Jobs
	r.GET("/linking_jobs", h.ListLinkingJobs)
	r.GET("/linking_jobs/:id", h.GetLinkingJob)
	r.POST("/linking_jobs", h.CreateLinkingJob)
	r.POST("/linking_jobs/:id/launch", h.LaunchLinkingJob)
	r.POST("/linking_jobs/:id/sync", h.SyncLinkingJob)
	r.POST("/linking_jobs/:id/ingest", h.IngestLinkingJob)
	r.GET("/linking_jobs/:id/metrics", h.GetLinkingJobMetrics)

	// Entity Catalogs
	r.GET("/catalogs", h.ListCatalogs)
	r.GET("/catalogs/:id", h.GetCatalog)
	r.GET("/catalog", h.GetCatalogByName)
	r.POST("/catalogs", h.RegisterCatalog)
	r.POST("/catalogs/:id/validate", h.ValidateCatalog)
	r.DELETE("/catalogs/:id", h.DeleteCatalog)
}
