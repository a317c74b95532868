package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"entity-linking-service/internal/adapters/primary/http/dto"
)

const apiPrefix = "/api/v1/entity-linking"

// apiClient is a thin HTTP client for the entity-linking service API.
type apiClient struct {
	baseURL   string
	projectID string
	http      *http.Client
}

func newClientFromFlags(cmd *cobra.Command) (*apiClient, error) {
	server, _ := cmd.Flags().GetString("server")
	project, _ := cmd.Flags().GetString("project")
	if project == "" {
		return nil, fmt.Errorf("project ID is required (use --project or ELINK_PROJECT_ID)")
	}
	return &apiClient{
		baseURL:   server,
		projectID: project,
		http:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// do sends a request and decodes the JSON response into out. Non-2xx
// responses are turned into errors using the server's error field.
func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Project-ID", c.projectID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) createTrainingRun(ctx context.Context, req dto.CreateTrainingRunRequest) (*dto.TrainingRunResponse, error) {
	var out dto.TrainingRunResponse
	if err := c.do(ctx, http.MethodPost, "/training_runs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) launchTrainingRun(ctx context.Context, id string, req dto.LaunchJobRequest) (*dto.TrainingRunResponse, error) {
	var out dto.TrainingRunResponse
	if err := c.do(ctx, http.MethodPost, "/training_runs/"+id+"/launch", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) listTrainingRuns(ctx context.Context, status string, limit int) (*dto.ListTrainingRunsResponse, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/training_runs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out dto.ListTrainingRunsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) getTrainingRun(ctx context.Context, id string) (*dto.TrainingRunResponse, error) {
	var out dto.TrainingRunResponse
	if err := c.do(ctx, http.MethodGet, "/training_runs/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) refreshCheckpoints(ctx context.Context, runID string) (*dto.ListCheckpointsResponse, error) {
	var out dto.ListCheckpointsResponse
	if err := c.do(ctx, http.MethodPost, "/training_runs/"+runID+"/checkpoints/refresh", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) promoteBestCheckpoint(ctx context.Context, runID string) (*dto.CheckpointResponse, error) {
	var out dto.CheckpointResponse
	if err := c.do(ctx, http.MethodPost, "/training_runs/"+runID+"/promote", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) createLinkingJob(ctx context.Context, req dto.CreateLinkingJobRequest) (*dto.LinkingJobResponse, error) {
	var out dto.LinkingJobResponse
	if err := c.do(ctx, http.MethodPost, "/linking_jobs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) launchLinkingJob(ctx context.Context, id string, req dto.LaunchJobRequest) (*dto.LinkingJobResponse, error) {
	var out dto.LinkingJobResponse
	if err := c.do(ctx, http.MethodPost, "/linking_jobs/"+id+"/launch", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) getCatalogByName(ctx context.Context, name string) (*dto.CatalogResponse, error) {
	var out dto.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/catalog?name="+url.QueryEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
