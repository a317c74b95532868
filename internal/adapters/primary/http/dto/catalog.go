package dto

import (
	"time"

	"github.com/google/uuid"

	"entity-linking-service/internal/core/domain"
)

type RegisterCatalogRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	Path         string `json:"path" binding:"required"`
	EncodingPath string `json:"encoding_path"`
	TokenIDsPath string `json:"token_ids_path"`
	EncodingDim  int    `json:"encoding_dim"`
}

type CatalogResponse struct {
	ID             uuid.UUID  `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ProjectID      uuid.UUID  `json:"project_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Path           string     `json:"path"`
	EncodingPath   string     `json:"encoding_path,omitempty"`
	TokenIDsPath   string     `json:"token_ids_path,omitempty"`
	EntityCount    int        `json:"entity_count"`
	MissingKBIDs   int        `json:"missing_kb_ids"`
	EncodingDim    int        `json:"encoding_dim"`
	Validated      bool       `json:"validated"`
	LastValidation *time.Time `json:"last_validation,omitempty"`
}

type ListCatalogsResponse struct {
	Items      []CatalogResponse `json:"items"`
	Total      int               `json:"total"`
	PageSize   int               `json:"page_size"`
	NextOffset int               `json:"next_offset"`
}

func ToCatalogResponse(cat *domain.EntityCatalog) CatalogResponse {
	return CatalogResponse{
		ID:             cat.ID,
		CreatedAt:      cat.CreatedAt,
		UpdatedAt:      cat.UpdatedAt,
		ProjectID:      cat.ProjectID,
		Name:           cat.Name,
		Description:    cat.Description,
		Path:           cat.Path,
		EncodingPath:   cat.EncodingPath,
		TokenIDsPath:   cat.TokenIDsPath,
		EntityCount:    cat.EntityCount,
		MissingKBIDs:   cat.MissingKBIDs,
		EncodingDim:    cat.EncodingDim,
		Validated:      cat.Validated,
		LastValidation: cat.LastValidation,
	}
}
