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

func TestRegisterCatalog(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	m.catalogRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.EntityCatalog")).Return(nil)
	m.catalogRepo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).
		Return(testCatalog(projectID), nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name": "wikipedia-5.9M",
		"path": "/data/entity.jsonl",
	})
	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/catalogs", bytes.NewReader(body))
	req.Header.Set("X-Project-ID", projectID.String())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterCatalog_MissingPath(t *testing.T) {
	_, r := setupRouter()

	body, _ := json.Marshal(map[string]interface{}{"name": "wikipedia-5.9M"})
	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/catalogs", bytes.NewReader(body))
	req.Header.Set("X-Project-ID", uuid.New().String())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCatalogByName(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	cat := testCatalog(projectID)
	m.catalogRepo.On("GetByName", mock.Anything, projectID, "wikipedia-5.9M").Return(cat, nil)

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/catalog?name=wikipedia-5.9M", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "wikipedia-5.9M", resp["name"])
}

func TestDeleteCatalog_InUse(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	cat := testCatalog(projectID)
	m.catalogRepo.On("GetByID", mock.Anything, projectID, cat.ID).Return(cat, nil)
	m.jobRepo.On("CountByCatalog", mock.Anything, cat.ID).Return(2, nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/entity-linking/catalogs/"+cat.ID.String(), nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPromoteBestCheckpoint_RunNotFinished(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	run := testRun(projectID)
	run.MarkRunning("job-1")
	m.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/training_runs/"+run.ID.String()+"/promote", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCheckpoints(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	run := testRun(projectID)
	cp, _ := domain.NewCheckpoint(run.ID, 0, "/models/zeshel/epoch_0")
	m.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	m.cpRepo.On("ListByRun", mock.Anything, run.ID).Return([]*domain.Checkpoint{cp}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/training_runs/"+run.ID.String()+"/checkpoints", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
}
