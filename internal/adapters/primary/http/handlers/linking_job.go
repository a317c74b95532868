package handlers

import (
	"net/http"
	"strconv"

	"entity-linking-service/internal/adapters/primary/http/dto"
	"entity-linking-service/internal/core/domain"
	ports "entity-linking-service/internal/core/ports/output"
	"entity-linking-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListLinkingJobs(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.JobListFilter{
		ProjectID: projectID,
		Status:    c.Query("status"),
		Limit:     limit,
		Offset:    offset,
	}
	if v := c.Query("training_run_id"); v != "" {
		runID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
			return
		}
		filter.TrainingRunID = &runID
	}
	if v := c.Query("catalog_id"); v != "" {
		catalogID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid catalog id"})
			return
		}
		filter.CatalogID = &catalogID
	}

	jobs, total, err := h.jobSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list linking jobs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.LinkingJobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, dto.ToLinkingJobResponse(job))
	}

	c.JSON(http.StatusOK, dto.ListLinkingJobsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetLinkingJob(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid linking job id"})
		return
	}

	job, err := h.jobSvc.Get(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkingJobResponse(job))
}

func (h *Handler) CreateLinkingJob(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	var req dto.CreateLinkingJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := domain.MentionMode(req.Mode)
	if req.Mode == "" {
		mode = domain.MentionModeGold
	}

	job, err := h.jobSvc.Create(c.Request.Context(), services.CreateLinkingJobRequest{
		ProjectID:        projectID,
		CatalogID:        req.CatalogID,
		TrainingRunID:    req.TrainingRunID,
		MentionsPath:     req.MentionsPath,
		EvalEntitiesPath: req.EvalEntitiesPath,
		PredsDir:         req.PredsDir,
		Mode:             mode,
		TopK:             req.TopK,
		Threshold:        req.Threshold,
		Thresholding:     domain.Thresholding(req.Thresholding),
		EvalBatchSize:    req.EvalBatchSize,
	})
	if err != nil {
		log.WithError(err).Error("create linking job failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLinkingJobResponse(job))
}

func (h *Handler) LaunchLinkingJob(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid linking job id"})
		return
	}

	// Placement body is optional.
	var req dto.LaunchJobRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	job, err := h.jobSvc.Launch(c.Request.Context(), projectID, id, services.LaunchRequest{
		Namespace:  req.Namespace,
		GPUs:       req.GPUs,
		CPUMillis:  req.CPUMillis,
		MemoryMB:   req.MemoryMB,
		NodeLabels: req.NodeLabels,
	})
	if err != nil {
		log.WithError(err).Error("launch linking job failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkingJobResponse(job))
}

func (h *Handler) SyncLinkingJob(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid linking job id"})
		return
	}

	job, err := h.jobSvc.Sync(c.Request.Context(), projectID, id, c.Query("namespace"))
	if err != nil {
		log.WithError(err).Error("sync linking job failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkingJobResponse(job))
}

func (h *Handler) IngestLinkingJob(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid linking job id"})
		return
	}

	job, err := h.jobSvc.Ingest(c.Request.Context(), projectID, id)
	if err != nil {
		log.WithError(err).Error("ingest linking job failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkingJobResponse(job))
}

func (h *Handler) GetLinkingJobMetrics(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid linking job id"})
		return
	}

	metrics, err := h.jobSvc.Metrics(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkingMetricsDTO(metrics))
}
