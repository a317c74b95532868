package dto

import (
	"time"

	"github.com/google/uuid"

	"entity-linking-service/internal/core/domain"
)

type CheckpointResponse struct {
	ID            uuid.UUID  `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	TrainingRunID uuid.UUID  `json:"training_run_id"`
	Epoch         int        `json:"epoch"`
	Path          string     `json:"path"`
	EvalAccuracy  *float64   `json:"eval_accuracy,omitempty"`
	Resumable     bool       `json:"resumable"`
	Promoted      bool       `json:"promoted"`
	PromotedAt    *time.Time `json:"promoted_at,omitempty"`
}

type ListCheckpointsResponse struct {
	Items []CheckpointResponse `json:"items"`
	Total int                  `json:"total"`
}

func ToCheckpointResponse(cp *domain.Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		ID:            cp.ID,
		CreatedAt:     cp.CreatedAt,
		UpdatedAt:     cp.UpdatedAt,
		TrainingRunID: cp.TrainingRunID,
		Epoch:         cp.Epoch,
		Path:          cp.Path,
		EvalAccuracy:  cp.EvalAccuracy,
		Resumable:     cp.Resumable,
		Promoted:      cp.Promoted,
		PromotedAt:    cp.PromotedAt,
	}
}
