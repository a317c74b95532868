package handlers

import (
	"net/http"

	"entity-linking-service/internal/adapters/primary/http/dto"
	"entity-linking-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListCheckpoints(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
		return
	}

	cps, err := h.checkpointSvc.List(c.Request.Context(), projectID, runID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.CheckpointResponse, 0, len(cps))
	for _, cp := range cps {
		items = append(items, dto.ToCheckpointResponse(cp))
	}

	c.JSON(http.StatusOK, dto.ListCheckpointsResponse{Items: items, Total: len(items)})
}

func (h *Handler) RefreshCheckpoints(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
		return
	}

	cps, err := h.checkpointSvc.Refresh(c.Request.Context(), projectID, runID)
	if err != nil {
		log.WithError(err).Error("refresh checkpoints failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.CheckpointResponse, 0, len(cps))
	for _, cp := range cps {
		items = append(items, dto.ToCheckpointResponse(cp))
	}

	c.JSON(http.StatusOK, dto.ListCheckpointsResponse{Items: items, Total: len(items)})
}

func (h *Handler) PromoteBestCheckpoint(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training run id"})
		return
	}

	best, err := h.checkpointSvc.PromoteBest(c.Request.Context(), projectID, runID)
	if err != nil {
		log.WithError(err).Error("promote checkpoint failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCheckpointResponse(best))
}

func (h *Handler) GetCheckpoint(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkpoint id"})
		return
	}

	cp, err := h.checkpointSvc.Get(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCheckpointResponse(cp))
}
