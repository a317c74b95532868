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

func (h *Handler) ListTrainingRuns(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.RunListFilter{
		ProjectID: projectID,
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		Order:     c.Query("order"),
		Limit:     limit,
		Offset:    offset,
	}

	runs, total, err := h.runSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list training runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.TrainingRunResponse, 0, len(runs))
	for _, run := range runs {
		items = append(items, dto.ToTrainingRunResponse(run))
	}

	c.JSON(http.StatusOK, dto.ListTrainingRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetTrainingRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
		return
	}

	run, err := h.runSvc.Get(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrainingRunResponse(run))
}

func (h *Handler) GetTrainingRunByName(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidTrainingRunName.Error()})
		return
	}

	run, err := h.runSvc.GetByName(c.Request.Context(), projectID, name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrainingRunResponse(run))
}

func (h *Handler) CreateTrainingRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	var req dto.CreateTrainingRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.runSvc.Create(c.Request.Context(), services.CreateRunRequest{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		DataPath:    req.DataPath,
		OutputPath:  req.OutputPath,
		CatalogID:   req.CatalogID,
		ResumeFrom:  req.ResumeFrom,
		Params:      req.Params.ToHyperparameters(),
		Labels:      req.Labels,
	})
	if err != nil {
		log.WithError(err).Error("create training run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTrainingRunResponse(run))
}

func (h *Handler) LaunchTrainingRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
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

	run, err := h.runSvc.Launch(c.Request.Context(), projectID, id, services.LaunchRequest{
		Namespace:  req.Namespace,
		GPUs:       req.GPUs,
		CPUMillis:  req.CPUMillis,
		MemoryMB:   req.MemoryMB,
		NodeLabels: req.NodeLabels,
	})
	if err != nil {
		log.WithError(err).Error("launch training run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrainingRunResponse(run))
}

func (h *Handler) SyncTrainingRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
		return
	}

	run, err := h.runSvc.Sync(c.Request.Context(), projectID, id, c.Query("namespace"))
	if err != nil {
		log.WithError(err).Error("sync training run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrainingRunResponse(run))
}

func (h *Handler) CancelTrainingRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
		return
	}

	run, err := h.runSvc.Cancel(c.Request.Context(), projectID, id, c.Query("namespace"))
	if err != nil {
		log.WithError(err).Error("cancel training run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTrainingRunResponse(run))
}

func (h *Handler) DeleteTrainingRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
		return
	}

	if err := h.runSvc.Delete(c.Request.Context(), projectID, id); err != nil {
		log.WithError(err).Error("delete training run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func getProjectID(c *gin.Context) (uuid.UUID, error) {
	header := c.GetHeader("X-Project-ID")
	if header == "" {
		return uuid.Nil, domain.ErrMissingProjectID
	}
	return uuid.Parse(header)
}
