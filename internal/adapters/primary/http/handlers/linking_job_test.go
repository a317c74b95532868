package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"entity-linking-service/internal/core/domain"
)

func testCatalog(projectID uuid.UUID) *domain.EntityCatalog {
	cat, _ := domain.NewEntityCatalog(projectID, "wikipedia-5.9M", "/data/entity.jsonl")
	return cat
}

func testJob(projectID, catalogID uuid.UUID) *domain.LinkingJob {
	job, _ := domain.NewLinkingJob(projectID, catalogID, "/data/test_mentions.jsonl", "/data/preds/test", domain.MentionModeGold, 100, domain.ThresholdJointZero)
	return job
}

func TestCreateLinkingJob(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	cat := testCatalog(projectID)
	m.catalogRepo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)
	m.jobRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.LinkingJob")).Return(nil)
	m.jobRepo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).
		Return(testJob(projectID, cat.ID), nil)

	body, _ := json.Marshal(map[string]interface{}{
		"catalog_id":    cat.ID,
		"mentions_path": "/data/test_mentions.jsonl",
		"mode":          "gold",
	})
	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/linking_jobs", bytes.NewReader(body))
	req.Header.Set("X-Project-ID", projectID.String())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateLinkingJob_InvalidMode(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	cat := testCatalog(projectID)
	m.catalogRepo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"catalog_id":    cat.ID,
		"mentions_path": "/data/test_mentions.jsonl",
		"mode":          "telepathy",
	})
	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/linking_jobs", bytes.NewReader(body))
	req.Header.Set("X-Project-ID", projectID.String())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLinkingJobMetrics_NotComputed(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	job := testJob(projectID, uuid.New())
	m.jobRepo.On("GetByID", mock.Anything, projectID, job.ID).Return(job, nil)

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/linking_jobs/"+job.ID.String()+"/metrics", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLinkingJobMetrics(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	job := testJob(projectID, uuid.New())
	job.SetMetrics(domain.LinkingMetrics{Accuracy: 0.79, RecallAtK: []float64{0.79, 0.85}, NumQueries: 100})
	m.jobRepo.On("GetByID", mock.Anything, projectID, job.ID).Return(job, nil)

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/linking_jobs/"+job.ID.String()+"/metrics", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 0.79, resp["accuracy"])
}

func TestIngestLinkingJob_NotReady(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	job := testJob(projectID, uuid.New())
	m.jobRepo.On("GetByID", mock.Anything, projectID, job.ID).Return(job, nil)
	m.store.On("HasPredictions", mock.Anything, job.PredsDir).Return(false, nil)

	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/linking_jobs/"+job.ID.String()+"/ingest", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
