package dto

import (
	"time"

	"github.com/google/uuid"

	"entity-linking-service/internal/core/domain"
)

type CreateLinkingJobRequest struct {
	CatalogID        uuid.UUID  `json:"catalog_id" binding:"required"`
	TrainingRunID    *uuid.UUID `json:"training_run_id"`
	MentionsPath     string     `json:"mentions_path" binding:"required"`
	EvalEntitiesPath string     `json:"eval_entities_path"`
	PredsDir         string     `json:"preds_dir"`
	Mode             string     `json:"mode"`
	TopK             int        `json:"top_k"`
	Threshold        *float64   `json:"mention_classifier_threshold"`
	Thresholding     string     `json:"final_thresholding"`
	EvalBatchSize    int        `json:"eval_batch_size"`
}

type LinkingMetricsDTO struct {
	Accuracy       float64   `json:"accuracy"`
	RecallAtK      []float64 `json:"recall_at_k"`
	Precision      float64   `json:"precision"`
	Recall         float64   `json:"recall"`
	F1             float64   `json:"f1"`
	NumQueries     int       `json:"num_queries"`
	NumPredicted   int       `json:"num_predicted"`
	NumGold        int       `json:"num_gold"`
	RuntimeSeconds float64   `json:"runtime_seconds"`
}

type LinkingJobResponse struct {
	ID               uuid.UUID          `json:"id"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	ProjectID        uuid.UUID          `json:"project_id"`
	TrainingRunID    *uuid.UUID         `json:"training_run_id,omitempty"`
	CatalogID        uuid.UUID          `json:"catalog_id"`
	MentionsPath     string             `json:"mentions_path"`
	EvalEntitiesPath string             `json:"eval_entities_path,omitempty"`
	PredsDir         string             `json:"preds_dir"`
	Mode             string             `json:"mode"`
	TopK             int                `json:"top_k"`
	Threshold        *float64           `json:"mention_classifier_threshold,omitempty"`
	Thresholding     string             `json:"final_thresholding,omitempty"`
	EvalBatchSize    int                `json:"eval_batch_size"`
	Status           string             `json:"status"`
	ExternalID       string             `json:"external_id,omitempty"`
	LastError        string             `json:"last_error,omitempty"`
	Metrics          *LinkingMetricsDTO `json:"metrics,omitempty"`
}

type ListLinkingJobsResponse struct {
	Items      []LinkingJobResponse `json:"items"`
	Total      int                  `json:"total"`
	PageSize   int                  `json:"page_size"`
	NextOffset int                  `json:"next_offset"`
}

func ToLinkingMetricsDTO(m *domain.LinkingMetrics) *LinkingMetricsDTO {
	if m == nil {
		return nil
	}
	return &LinkingMetricsDTO{
		Accuracy:       m.Accuracy,
		RecallAtK:      m.RecallAtK,
		Precision:      m.Precision,
		Recall:         m.Recall,
		F1:             m.F1,
		NumQueries:     m.NumQueries,
		NumPredicted:   m.NumPredicted,
		NumGold:        m.NumGold,
		RuntimeSeconds: m.RuntimeSeconds,
	}
}

func ToLinkingJobResponse(job *domain.LinkingJob) LinkingJobResponse {
	return LinkingJobResponse{
		ID:               job.ID,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
		ProjectID:        job.ProjectID,
		TrainingRunID:    job.TrainingRunID,
		CatalogID:        job.CatalogID,
		MentionsPath:     job.MentionsPath,
		EvalEntitiesPath: job.EvalEntitiesPath,
		PredsDir:         job.PredsDir,
		Mode:             string(job.Mode),
		TopK:             job.TopK,
		Threshold:        job.Threshold,
		Thresholding:     string(job.Thresholding),
		EvalBatchSize:    job.EvalBatchSize,
		Status:           string(job.Status),
		ExternalID:       job.ExternalID,
		LastError:        job.LastError,
		Metrics:          ToLinkingMetricsDTO(job.Metrics),
	}
}
