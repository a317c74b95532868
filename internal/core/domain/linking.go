package domain

import (
	"time"

	"github.com/google/uuid"
)

// MentionMode selects how mention boundaries are obtained at inference time.
type MentionMode string

const (
	// MentionModeGold uses the gold boundaries present in the dataset.
	MentionModeGold MentionMode = "gold"
	// MentionModeSingle treats the whole utterance as one mention.
	MentionModeSingle MentionMode = "single"
	// MentionModeJoint lets the encoder detect mentions jointly with linking.
	MentionModeJoint MentionMode = "joint"
	// MentionModeNgram enumerates candidate n-gram spans.
	MentionModeNgram MentionMode = "ngram"
	// MentionModeClassifier takes spans from an external mention classifier.
	MentionModeClassifier MentionMode = "classifier"
)

// IsValid checks if the mode is valid
func (m MentionMode) IsValid() bool {
	switch m {
	case MentionModeGold, MentionModeSingle, MentionModeJoint, MentionModeNgram, MentionModeClassifier:
		return true
	}
	return false
}

// RequiresThreshold reports whether the mode needs a mention classifier
// threshold to prune spans.
func (m MentionMode) RequiresThreshold() bool {
	return m == MentionModeJoint || m == MentionModeClassifier
}

// Thresholding selects how final candidates are kept per query.
type Thresholding string

const (
	// ThresholdJointZero keeps candidates whose joint score is positive.
	ThresholdJointZero Thresholding = "joint_0"
	// ThresholdTopJointByMention keeps the top joint-scored candidate per span.
	ThresholdTopJointByMention Thresholding = "top_joint_by_mention"
	// ThresholdTopEntityByMention keeps the top entity-scored candidate per span.
	ThresholdTopEntityByMention Thresholding = "top_entity_by_mention"
)

// IsValid checks if the thresholding mode is valid
func (t Thresholding) IsValid() bool {
	return t == ThresholdJointZero || t == ThresholdTopJointByMention || t == ThresholdTopEntityByMention
}

// LinkingMetrics holds the evaluation results of a linking job.
type LinkingMetrics struct {
	Accuracy       float64   `json:"accuracy"` // recall@1
	RecallAtK      []float64 `json:"recall_at_k"`
	Precision      float64   `json:"precision"`
	Recall         float64   `json:"recall"`
	F1             float64   `json:"f1"`
	NumQueries     int       `json:"num_queries"`
	NumPredicted   int       `json:"num_predicted"`
	NumGold        int       `json:"num_gold"`
	RuntimeSeconds float64   `json:"runtime_seconds"`
}

// LinkingJob represents a candidate-retrieval evaluation over a mention
// dataset against a registered entity catalog.
type LinkingJob struct {
	ID            uuid.UUID   `json:"id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	ProjectID     uuid.UUID   `json:"project_id"`
	TrainingRunID *uuid.UUID  `json:"training_run_id"` // checkpoint source, optional
	CatalogID     uuid.UUID   `json:"catalog_id"`
	MentionsPath  string      `json:"mentions_path"`
	// EvalEntitiesPath optionally restricts gold labels to an evaluation
	// entity subset, re-keyed against the catalogue by title.
	EvalEntitiesPath string          `json:"eval_entities_path,omitempty"`
	PredsDir         string          `json:"preds_dir"`
	Mode             MentionMode     `json:"mode"`
	TopK             int             `json:"top_k"`
	Threshold        *float64        `json:"mention_classifier_threshold"`
	Thresholding     Thresholding    `json:"final_thresholding"`
	EvalBatchSize    int             `json:"eval_batch_size"`
	Status           RunStatus       `json:"status"`
	ExternalID       string          `json:"external_id"`
	LastError        string          `json:"last_error"`
	Metrics          *LinkingMetrics `json:"metrics"`
}

// NewLinkingJob creates a linking job in PENDING state with validation.
func NewLinkingJob(projectID, catalogID uuid.UUID, mentionsPath, predsDir string, mode MentionMode, topK int, thresholding Thresholding) (*LinkingJob, error) {
	if projectID == uuid.Nil {
		return nil, ErrMissingProjectID
	}
	if catalogID == uuid.Nil {
		return nil, ErrCatalogNotFound
	}
	if mentionsPath == "" {
		return nil, ErrInvalidMentionsPath
	}
	if !mode.IsValid() {
		return nil, ErrInvalidMentionMode
	}
	if topK < 1 {
		return nil, ErrInvalidTopK
	}
	if thresholding != "" && !thresholding.IsValid() {
		return nil, ErrInvalidThresholding
	}

	now := time.Now()
	return &LinkingJob{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		ProjectID:     projectID,
		CatalogID:     catalogID,
		MentionsPath:  mentionsPath,
		PredsDir:      predsDir,
		Mode:          mode,
		TopK:          topK,
		Thresholding:  thresholding,
		EvalBatchSize: 8,
		Status:        RunStatusPending,
	}, nil
}

// MarkRunning records the launched cluster job UID.
func (j *LinkingJob) MarkRunning(externalID string) {
	j.Status = RunStatusRunning
	j.ExternalID = externalID
	j.LastError = ""
	j.UpdatedAt = time.Now()
}

// MarkFailed records the failure reason.
func (j *LinkingJob) MarkFailed(reason string) {
	j.Status = RunStatusFailed
	j.LastError = reason
	j.UpdatedAt = time.Now()
}

// SetMetrics finalizes the job with computed evaluation results.
func (j *LinkingJob) SetMetrics(m LinkingMetrics) {
	j.Metrics = &m
	j.Status = RunStatusSucceeded
	j.LastError = ""
	j.UpdatedAt = time.Now()
}
