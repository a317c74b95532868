package handlers

import (
	"net/http"
	"strconv"

	"entity-linking-service/internal/adapters/primary/http/dto"
	"entity-linking-service/internal/core/domain"
	"entity-linking-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListCatalogs(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	cats, total, err := h.catalogSvc.List(c.Request.Context(), projectID, limit, offset)
	if err != nil {
		log.WithError(err).Error("list catalogs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.CatalogResponse, 0, len(cats))
	for _, cat := range cats {
		items = append(items, dto.ToCatalogResponse(cat))
	}

	c.JSON(http.StatusOK, dto.ListCatalogsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetCatalog(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid catalog id"})
		return
	}

	cat, err := h.catalogSvc.Get(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCatalogResponse(cat))
}

func (h *Handler) GetCatalogByName(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidCatalogName.Error()})
		return
	}

	cat, err := h.catalogSvc.GetByName(c.Request.Context(), projectID, name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCatalogResponse(cat))
}

func (h *Handler) RegisterCatalog(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	var req dto.RegisterCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.catalogSvc.Register(c.Request.Context(), services.RegisterCatalogRequest{
		ProjectID:    projectID,
		Name:         req.Name,
		Description:  req.Description,
		Path:         req.Path,
		EncodingPath: req.EncodingPath,
		TokenIDsPath: req.TokenIDsPath,
		EncodingDim:  req.EncodingDim,
	})
	if err != nil {
		log.WithError(err).Error("register catalog failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCatalogResponse(cat))
}

func (h *Handler) ValidateCatalog(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid catalog id"})
		return
	}

	cat, err := h.catalogSvc.Validate(c.Request.Context(), projectID, id)
	if err != nil {
		log.WithError(err).Error("validate catalog failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCatalogResponse(cat))
}

func (h *Handler) DeleteCatalog(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid catalog id"})
		return
	}

	if err := h.catalogSvc.Delete(c.Request.Context(), projectID, id); err != nil {
		log.WithError(err).Error("delete catalog failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
