package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"entity-linking-service/internal/core/domain"
	"entity-linking-service/internal/core/services"
	"entity-linking-service/internal/testutil"
)

type routerMocks struct {
	runRepo     *testutil.MockTrainingRunRepo
	cpRepo      *testutil.MockCheckpointRepo
	jobRepo     *testutil.MockLinkingJobRepo
	catalogRepo *testutil.MockCatalogRepo
	launcher    *testutil.MockLauncher
	store       *testutil.MockArtifactStore
}

func setupRouter() (*routerMocks, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	m := &routerMocks{
		runRepo:     new(testutil.MockTrainingRunRepo),
		cpRepo:      new(testutil.MockCheckpointRepo),
		jobRepo:     new(testutil.MockLinkingJobRepo),
		catalogRepo: new(testutil.MockCatalogRepo),
		launcher:    new(testutil.MockLauncher),
		store:       new(testutil.MockArtifactStore),
	}

	runSvc := services.NewTrainingRunService(m.runRepo, m.launcher)
	cpSvc := services.NewCheckpointService(m.cpRepo, m.runRepo, m.store)
	jobSvc := services.NewLinkingJobService(m.jobRepo, m.catalogRepo, m.runRepo, m.launcher, m.store)
	catalogSvc := services.NewCatalogService(m.catalogRepo, m.jobRepo)

	h := New(runSvc, cpSvc, jobSvc, catalogSvc)
	r := gin.New()
	api := r.Group("/api/v1/entity-linking")
	h.RegisterRoutes(api)

	return m, r
}

func testRun(projectID uuid.UUID) *domain.TrainingRun {
	run, _ := domain.NewTrainingRun(projectID, "zeshel-biencoder", "/data/zeshel", "/models/zeshel", domain.DefaultHyperparameters())
	return run
}

func TestListTrainingRuns(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	m.runRepo.On("List", mock.Anything, mock.AnythingOfType("ports.RunListFilter")).
		Return([]*domain.TrainingRun{testRun(projectID)}, 1, nil)

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/training_runs?limit=10", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
}

func TestListTrainingRuns_MissingProjectID(t *testing.T) {
	_, r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/training_runs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTrainingRun(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	run := testRun(projectID)
	m.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/training_runs/"+run.ID.String(), nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "zeshel-biencoder", resp["name"])
}

func TestGetTrainingRun_NotFound(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	id := uuid.New()
	m.runRepo.On("GetByID", mock.Anything, projectID, id).Return(nil, domain.ErrTrainingRunNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/entity-linking/training_runs/"+id.String(), nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTrainingRun(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	m.runRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TrainingRun")).Return(nil)
	m.runRepo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).
		Return(testRun(projectID), nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "zeshel-biencoder",
		"data_path":   "/data/zeshel",
		"output_path": "/models/zeshel",
		"params": map[string]interface{}{
			"train_batch_size": 64,
		},
	})
	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/training_runs", bytes.NewReader(body))
	req.Header.Set("X-Project-ID", projectID.String())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	m.runRepo.AssertExpectations(t)
}

func TestCreateTrainingRun_MissingName(t *testing.T) {
	_, r := setupRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"data_path":   "/data/zeshel",
		"output_path": "/models/zeshel",
	})
	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/training_runs", bytes.NewReader(body))
	req.Header.Set("X-Project-ID", uuid.New().String())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLaunchTrainingRun_NoLauncher(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	run := testRun(projectID)
	m.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	m.launcher.On("IsAvailable").Return(false)

	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/training_runs/"+run.ID.String()+"/launch", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCancelTrainingRun_NotActive(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	run := testRun(projectID)
	run.MarkRunning("job-1")
	run.MarkSucceeded()
	m.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	req, _ := http.NewRequest("POST", "/api/v1/entity-linking/training_runs/"+run.ID.String()+"/cancel", nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTrainingRun_Active(t *testing.T) {
	m, r := setupRouter()

	projectID := uuid.New()
	run := testRun(projectID)
	run.MarkRunning("job-1")
	m.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/entity-linking/training_runs/"+run.ID.String(), nil)
	req.Header.Set("X-Project-ID", projectID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
