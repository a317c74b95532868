package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-linking-service/internal/adapters/primary/http/dto"
)

func testClient(srv *httptest.Server) *apiClient {
	return &apiClient{
		baseURL:   srv.URL,
		projectID: "proj-1",
		http:      &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateTrainingRun(t *testing.T) {
	runID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, apiPrefix+"/training_runs", r.URL.Path)
		assert.Equal(t, "proj-1", r.Header.Get("X-Project-ID"))

		var req dto.CreateTrainingRunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "zeshel-biencoder", req.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.TrainingRunResponse{
			ID:     runID,
			Name:   req.Name,
			Status: "PENDING",
		})
	}))
	defer srv.Close()

	run, err := testClient(srv).createTrainingRun(context.Background(), dto.CreateTrainingRunRequest{
		Name:       "zeshel-biencoder",
		DataPath:   "/data/zeshel",
		OutputPath: "models/zeshel",
	})
	require.NoError(t, err)
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, "PENDING", run.Status)
}

func TestDo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "training run name already exists"})
	}))
	defer srv.Close()

	_, err := testClient(srv).createTrainingRun(context.Background(), dto.CreateTrainingRunRequest{Name: "dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "training run name already exists")
	assert.Contains(t, err.Error(), "409")
}

func TestGetCatalogByName(t *testing.T) {
	catID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiPrefix+"/catalog", r.URL.Path)
		assert.Equal(t, "wikipedia-5.9M", r.URL.Query().Get("name"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.CatalogResponse{ID: catID, Name: "wikipedia-5.9M"})
	}))
	defer srv.Close()

	cat, err := testClient(srv).getCatalogByName(context.Background(), "wikipedia-5.9M")
	require.NoError(t, err)
	assert.Equal(t, catID, cat.ID)
}

func TestResolveCatalog_UUIDPassthrough(t *testing.T) {
	id := uuid.New()

	// A UUID reference never reaches the server.
	got, err := resolveCatalog(context.Background(), nil, id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
