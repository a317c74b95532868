package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle state of a training run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusCancelled RunStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusSucceeded, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further state transitions are expected.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusSucceeded || s == RunStatusFailed || s == RunStatusCancelled
}

// Hyperparameters configure a single bi-encoder training job. The zero
// value is not usable; call DefaultHyperparameters and override.
type Hyperparameters struct {
	BertModel            string  `json:"bert_model"`
	LearningRate         float64 `json:"learning_rate"`
	NumTrainEpochs       int     `json:"num_train_epochs"`
	TrainBatchSize       int     `json:"train_batch_size"`
	EvalBatchSize        int     `json:"eval_batch_size"`
	GradAccumulationSteps int    `json:"gradient_accumulation_steps"`
	MaxContextLength     int     `json:"max_context_length"`
	MaxCandidateLength   int     `json:"max_cand_length"`
	WarmupProportion     float64 `json:"warmup_proportion"`
	MaxGradNorm          float64 `json:"max_grad_norm"`
	Seed                 int     `json:"seed"`
	PrintInterval        int     `json:"print_interval"`
	EvalInterval         int     `json:"eval_interval"`
	Shuffle              bool    `json:"shuffle"`
	FreezeCandidateEnc   bool    `json:"freeze_cand_enc"`
	AdversarialTraining  bool    `json:"adversarial_training"`
	NoMentionBounds      bool    `json:"no_mention_bounds"`
	LastEpoch            int     `json:"last_epoch"`
}

// DefaultHyperparameters returns the stock bi-encoder training configuration.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		BertModel:             "bert-large-uncased",
		LearningRate:          3e-5,
		NumTrainEpochs:        1,
		TrainBatchSize:        128,
		EvalBatchSize:         8,
		GradAccumulationSteps: 1,
		MaxContextLength:      128,
		MaxCandidateLength:    128,
		WarmupProportion:      0.1,
		MaxGradNorm:           1.0,
		Seed:                  1234,
		PrintInterval:         10,
		EvalInterval:          100,
		Shuffle:               true,
		LastEpoch:             -1,
	}
}

// Validate checks hyperparameter invariants that the trainer would reject.
func (h Hyperparameters) Validate() error {
	if h.GradAccumulationSteps < 1 {
		return ErrInvalidGradAccSteps
	}
	if h.TrainBatchSize < h.GradAccumulationSteps {
		return ErrInvalidBatchSize
	}
	return nil
}

// EffectiveBatchSize is the per-step batch size after spreading the
// configured batch across gradient accumulation steps.
func (h Hyperparameters) EffectiveBatchSize() int {
	return h.TrainBatchSize / h.GradAccumulationSteps
}

// TrainingRun represents one bi-encoder training job and its artifacts.
type TrainingRun struct {
	ID            uuid.UUID       `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	ProjectID     uuid.UUID       `json:"project_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DataPath      string          `json:"data_path"`
	OutputPath    string          `json:"output_path"`
	CatalogID     *uuid.UUID      `json:"catalog_id"`
	Params        Hyperparameters `json:"params"`
	// EffectiveBatchSize is the per-step batch size the trainer actually
	// uses after spreading Params.TrainBatchSize across gradient
	// accumulation steps.
	EffectiveBatchSize int               `json:"effective_batch_size"`
	Status             RunStatus         `json:"status"`
	ExternalID         string            `json:"external_id"` // cluster job UID
	LastError          string            `json:"last_error"`
	ResumeFrom         string            `json:"resume_from"` // trainer state path, optional
	BestEpoch          *int              `json:"best_epoch"`
	BestAccuracy       *float64          `json:"best_accuracy"`
	StartedAt          *time.Time        `json:"started_at"`
	FinishedAt         *time.Time        `json:"finished_at"`
	Labels             map[string]string `json:"labels"`
}

// NewTrainingRun creates a training run in PENDING state with validation.
func NewTrainingRun(projectID uuid.UUID, name, dataPath, outputPath string, params Hyperparameters) (*TrainingRun, error) {
	if projectID == uuid.Nil {
		return nil, ErrMissingProjectID
	}
	if name == "" {
		return nil, ErrInvalidTrainingRunName
	}
	if dataPath == "" {
		return nil, ErrInvalidDataPath
	}
	if outputPath == "" {
		return nil, ErrInvalidOutputPath
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &TrainingRun{
		ID:                 uuid.New(),
		CreatedAt:          now,
		UpdatedAt:          now,
		ProjectID:          projectID,
		Name:               name,
		DataPath:           dataPath,
		OutputPath:         outputPath,
		Params:             params,
		EffectiveBatchSize: params.EffectiveBatchSize(),
		Status:             RunStatusPending,
		Labels:             make(map[string]string),
	}, nil
}

// MarkRunning records the launched cluster job UID.
func (r *TrainingRun) MarkRunning(externalID string) {
	now := time.Now()
	r.Status = RunStatusRunning
	r.ExternalID = externalID
	r.StartedAt = &now
	r.LastError = ""
	r.UpdatedAt = now
}

// MarkSucceeded finalizes the run.
func (r *TrainingRun) MarkSucceeded() {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.FinishedAt = &now
	r.LastError = ""
	r.UpdatedAt = now
}

// MarkFailed records the failure reason.
func (r *TrainingRun) MarkFailed(reason string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.LastError = reason
	r.UpdatedAt = now
}

// MarkCancelled finalizes a cancelled run.
func (r *TrainingRun) MarkCancelled() {
	now := time.Now()
	r.Status = RunStatusCancelled
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// RecordBest updates the best-epoch bookkeeping kept alongside the run.
func (r *TrainingRun) RecordBest(epoch int, accuracy float64) {
	r.BestEpoch = &epoch
	r.BestAccuracy = &accuracy
	r.UpdatedAt = time.Now()
}

// IsActive reports whether the run still has a cluster job behind it.
func (r *TrainingRun) IsActive() bool {
	return r.Status == RunStatusPending || r.Status == RunStatusRunning
}
