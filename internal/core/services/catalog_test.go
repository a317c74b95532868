package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"entity-linking-service/internal/core/domain"
	"entity-linking-service/internal/testutil"
)

// ============================================================================
// Register Tests
// ============================================================================

func TestCatalogService_Register(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	svc := NewCatalogService(repo, nil)

	projectID := uuid.New()
	cat := newTestCatalog(t, projectID)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.EntityCatalog")).Return(nil)
	repo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).Return(cat, nil)

	got, err := svc.Register(context.Background(), RegisterCatalogRequest{
		ProjectID: projectID,
		Name:      "wikipedia-5.9M",
		Path:      "/data/entity.jsonl",
	})

	assert.NoError(t, err)
	assert.NotNil(t, got)
	repo.AssertExpectations(t)
}

func TestCatalogService_Register_MissingName(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	svc := NewCatalogService(repo, nil)

	_, err := svc.Register(context.Background(), RegisterCatalogRequest{
		ProjectID: uuid.New(),
		Path:      "/data/entity.jsonl",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCatalogName)
	repo.AssertNotCalled(t, "Create")
}

// ============================================================================
// Validate Tests
// ============================================================================

func TestCatalogService_Validate(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "entity.jsonl")
	lines := `{"title":"Douglas Adams","text":"English author.","idx":"https://en.wikipedia.org/wiki?curid=8091","kb_idx":"Q42"}
{"title":"London","text":"Capital of England.","idx":"https://en.wikipedia.org/wiki?curid=17867"}
`
	assert.NoError(t, os.WriteFile(catalogPath, []byte(lines), 0o644))

	repo := new(testutil.MockCatalogRepo)
	svc := NewCatalogService(repo, nil)

	projectID := uuid.New()
	cat, err := domain.NewEntityCatalog(projectID, "test", catalogPath)
	assert.NoError(t, err)

	repo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)
	repo.On("Update", mock.Anything, projectID, cat).Return(nil)

	got, err := svc.Validate(context.Background(), projectID, cat.ID)

	assert.NoError(t, err)
	assert.True(t, got.Validated)
	assert.Equal(t, 2, got.EntityCount)
	assert.Equal(t, 1, got.MissingKBIDs)
	assert.NotNil(t, got.LastValidation)
}

func TestCatalogService_Validate_MissingEncoding(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "entity.jsonl")
	assert.NoError(t, os.WriteFile(catalogPath, []byte(`{"title":"A","text":"a"}`+"\n"), 0o644))

	repo := new(testutil.MockCatalogRepo)
	svc := NewCatalogService(repo, nil)

	projectID := uuid.New()
	cat, err := domain.NewEntityCatalog(projectID, "test", catalogPath)
	assert.NoError(t, err)
	cat.EncodingPath = filepath.Join(dir, "missing.t7")

	repo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)

	_, err = svc.Validate(context.Background(), projectID, cat.ID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entity encoding")
	repo.AssertNotCalled(t, "Update")
}

func TestCatalogService_Validate_DuplicateWikipediaID(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "entity.jsonl")
	lines := `{"title":"A","text":"a","idx":"https://en.wikipedia.org/wiki?curid=1"}
{"title":"B","text":"b","idx":"https://en.wikipedia.org/wiki?curid=1"}
`
	assert.NoError(t, os.WriteFile(catalogPath, []byte(lines), 0o644))

	repo := new(testutil.MockCatalogRepo)
	svc := NewCatalogService(repo, nil)

	projectID := uuid.New()
	cat, err := domain.NewEntityCatalog(projectID, "test", catalogPath)
	assert.NoError(t, err)

	repo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)

	_, err = svc.Validate(context.Background(), projectID, cat.ID)

	assert.ErrorIs(t, err, domain.ErrDuplicateWikipediaID)
}

// ============================================================================
// Delete Tests
// ============================================================================

func TestCatalogService_Delete_InUse(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	jobRepo := new(testutil.MockLinkingJobRepo)
	svc := NewCatalogService(repo, jobRepo)

	projectID := uuid.New()
	cat := newTestCatalog(t, projectID)

	repo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)
	jobRepo.On("CountByCatalog", mock.Anything, cat.ID).Return(3, nil)

	err := svc.Delete(context.Background(), projectID, cat.ID)

	assert.ErrorIs(t, err, domain.ErrCatalogInUse)
	repo.AssertNotCalled(t, "Delete")
}

func TestCatalogService_Delete(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	jobRepo := new(testutil.MockLinkingJobRepo)
	svc := NewCatalogService(repo, jobRepo)

	projectID := uuid.New()
	cat := newTestCatalog(t, projectID)

	repo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)
	jobRepo.On("CountByCatalog", mock.Anything, cat.ID).Return(0, nil)
	repo.On("Delete", mock.Anything, projectID, cat.ID).Return(nil)

	err := svc.Delete(context.Background(), projectID, cat.ID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
