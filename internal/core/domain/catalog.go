package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityCatalog registers a JSON-lines entity catalogue together with the
// precomputed encoding artifacts the linker loads at inference time.
type EntityCatalog struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ProjectID      uuid.UUID `json:"project_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Path           string    `json:"path"`            // entity.jsonl
	EncodingPath   string    `json:"encoding_path"`   // dense entity encodings
	TokenIDsPath   string    `json:"token_ids_path"`  // tokenized titles+descriptions
	EntityCount    int       `json:"entity_count"`
	MissingKBIDs   int       `json:"missing_kb_ids"`
	EncodingDim    int       `json:"encoding_dim"`
	Validated      bool      `json:"validated"`
	LastValidation *time.Time `json:"last_validation"`
}

// NewEntityCatalog creates a catalog record with validation.
func NewEntityCatalog(projectID uuid.UUID, name, path string) (*EntityCatalog, error) {
	if projectID == uuid.Nil {
		return nil, ErrMissingProjectID
	}
	if name == "" {
		return nil, ErrInvalidCatalogName
	}
	if path == "" {
		return nil, ErrInvalidCatalogPath
	}

	now := time.Now()
	return &EntityCatalog{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		ProjectID: projectID,
		Name:      name,
		Path:      path,
	}, nil
}

// RecordValidation stamps the catalog with the stats of a successful load.
func (c *EntityCatalog) RecordValidation(entityCount, missingKBIDs int) {
	now := time.Now()
	c.EntityCount = entityCount
	c.MissingKBIDs = missingKBIDs
	c.Validated = true
	c.LastValidation = &now
	c.UpdatedAt = now
}
