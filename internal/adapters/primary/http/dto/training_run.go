package dto

import (
	"time"

	"github.com/google/uuid"

	"entity-linking-service/internal/core/domain"
)

type CreateTrainingRunRequest struct {
	Name        string             `json:"name" binding:"required,max=100"`
	Description string             `json:"description"`
	DataPath    string             `json:"data_path" binding:"required"`
	OutputPath  string             `json:"output_path" binding:"required"`
	CatalogID   *uuid.UUID         `json:"catalog_id"`
	ResumeFrom  string             `json:"resume_from"`
	Params      *HyperparamsDTO    `json:"params"`
	Labels      map[string]string  `json:"labels"`
}

// HyperparamsDTO overrides individual training hyperparameters; unset
// fields keep the stock defaults.
type HyperparamsDTO struct {
	BertModel             *string  `json:"bert_model"`
	LearningRate          *float64 `json:"learning_rate"`
	NumTrainEpochs        *int     `json:"num_train_epochs"`
	TrainBatchSize        *int     `json:"train_batch_size"`
	EvalBatchSize         *int     `json:"eval_batch_size"`
	GradAccumulationSteps *int     `json:"gradient_accumulation_steps"`
	MaxContextLength      *int     `json:"max_context_length"`
	MaxCandidateLength    *int     `json:"max_cand_length"`
	WarmupProportion      *float64 `json:"warmup_proportion"`
	MaxGradNorm           *float64 `json:"max_grad_norm"`
	Seed                  *int     `json:"seed"`
	PrintInterval         *int     `json:"print_interval"`
	EvalInterval          *int     `json:"eval_interval"`
	Shuffle               *bool    `json:"shuffle"`
	FreezeCandidateEnc    *bool    `json:"freeze_cand_enc"`
	AdversarialTraining   *bool    `json:"adversarial_training"`
	NoMentionBounds       *bool    `json:"no_mention_bounds"`
	LastEpoch             *int     `json:"last_epoch"`
}

// ToHyperparameters applies the request overrides on top of the defaults.
func (d *HyperparamsDTO) ToHyperparameters() domain.Hyperparameters {
	p := domain.DefaultHyperparameters()
	if d == nil {
		return p
	}
	if d.BertModel != nil {
		p.BertModel = *d.BertModel
	}
	if d.LearningRate != nil {
		p.LearningRate = *d.LearningRate
	}
	if d.NumTrainEpochs != nil {
		p.NumTrainEpochs = *d.NumTrainEpochs
	}
	if d.TrainBatchSize != nil {
		p.TrainBatchSize = *d.TrainBatchSize
	}
	if d.EvalBatchSize != nil {
		p.EvalBatchSize = *d.EvalBatchSize
	}
	if d.GradAccumulationSteps != nil {
		p.GradAccumulationSteps = *d.GradAccumulationSteps
	}
	if d.MaxContextLength != nil {
		p.MaxContextLength = *d.MaxContextLength
	}
	if d.MaxCandidateLength != nil {
		p.MaxCandidateLength = *d.MaxCandidateLength
	}
	if d.WarmupProportion != nil {
		p.WarmupProportion = *d.WarmupProportion
	}
	if d.MaxGradNorm != nil {
		p.MaxGradNorm = *d.MaxGradNorm
	}
	if d.Seed != nil {
		p.Seed = *d.Seed
	}
	if d.PrintInterval != nil {
		p.PrintInterval = *d.PrintInterval
	}
	if d.EvalInterval != nil {
		p.EvalInterval = *d.EvalInterval
	}
	if d.Shuffle != nil {
		p.Shuffle = *d.Shuffle
	}
	if d.FreezeCandidateEnc != nil {
		p.FreezeCandidateEnc = *d.FreezeCandidateEnc
	}
	if d.AdversarialTraining != nil {
		p.AdversarialTraining = *d.AdversarialTraining
	}
	if d.NoMentionBounds != nil {
		p.NoMentionBounds = *d.NoMentionBounds
	}
	if d.LastEpoch != nil {
		p.LastEpoch = *d.LastEpoch
	}
	return p
}

type LaunchJobRequest struct {
	Namespace  string            `json:"namespace"`
	GPUs       int               `json:"gpus"`
	CPUMillis  int               `json:"cpu_millis"`
	MemoryMB   int               `json:"memory_mb"`
	NodeLabels map[string]string `json:"node_labels"`
}

type TrainingRunResponse struct {
	ID           uuid.UUID              `json:"id"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	ProjectID    uuid.UUID              `json:"project_id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	DataPath     string                 `json:"data_path"`
	OutputPath   string                 `json:"output_path"`
	CatalogID    *uuid.UUID             `json:"catalog_id"`
	Params       domain.Hyperparameters `json:"params"`
	// EffectiveBatchSize is the per-step batch size after gradient
	// accumulation, fixed at run creation.
	EffectiveBatchSize int               `json:"effective_batch_size"`
	Status             string            `json:"status"`
	ExternalID         string            `json:"external_id,omitempty"`
	LastError          string            `json:"last_error,omitempty"`
	ResumeFrom         string            `json:"resume_from,omitempty"`
	BestEpoch          *int              `json:"best_epoch,omitempty"`
	BestAccuracy       *float64          `json:"best_accuracy,omitempty"`
	StartedAt          *time.Time        `json:"started_at,omitempty"`
	FinishedAt         *time.Time        `json:"finished_at,omitempty"`
	Labels             map[string]string `json:"labels"`
}

type ListTrainingRunsResponse struct {
	Items      []TrainingRunResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

func ToTrainingRunResponse(run *domain.TrainingRun) TrainingRunResponse {
	return TrainingRunResponse{
		ID:                 run.ID,
		CreatedAt:          run.CreatedAt,
		UpdatedAt:          run.UpdatedAt,
		ProjectID:          run.ProjectID,
		Name:               run.Name,
		Description:        run.Description,
		DataPath:           run.DataPath,
		OutputPath:         run.OutputPath,
		CatalogID:          run.CatalogID,
		Params:             run.Params,
		EffectiveBatchSize: run.EffectiveBatchSize,
		Status:             string(run.Status),
		ExternalID:         run.ExternalID,
		LastError:          run.LastError,
		ResumeFrom:         run.ResumeFrom,
		BestEpoch:          run.BestEpoch,
		BestAccuracy:       run.BestAccuracy,
		StartedAt:          run.StartedAt,
		FinishedAt:         run.FinishedAt,
		Labels:             run.Labels,
	}
}
