package domain

import (
	"time"

	"github.com/google/uuid"
)

// Checkpoint records one per-epoch model snapshot discovered under a
// training run's output directory (epoch_<idx> subdirectories).
type Checkpoint struct {
	ID            uuid.UUID  `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	TrainingRunID uuid.UUID  `json:"training_run_id"`
	Epoch         int        `json:"epoch"`
	Path          string     `json:"path"`
	EvalAccuracy  *float64   `json:"eval_accuracy"`
	Resumable     bool       `json:"resumable"` // trainer state present alongside weights
	Promoted      bool       `json:"promoted"`
	PromotedAt    *time.Time `json:"promoted_at"`
}

// NewCheckpoint creates a checkpoint record with validation.
func NewCheckpoint(runID uuid.UUID, epoch int, path string) (*Checkpoint, error) {
	if runID == uuid.Nil {
		return nil, ErrTrainingRunNotFound
	}
	if epoch < 0 {
		return nil, ErrInvalidEpochIndex
	}

	now := time.Now()
	return &Checkpoint{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		TrainingRunID: runID,
		Epoch:         epoch,
		Path:          path,
	}, nil
}

// SetAccuracy records the dev-set accuracy parsed from the epoch's
// eval results file.
func (c *Checkpoint) SetAccuracy(acc float64) {
	c.EvalAccuracy = &acc
	c.UpdatedAt = time.Now()
}

// MarkPromoted stamps the checkpoint as the one copied into the run root.
func (c *Checkpoint) MarkPromoted() {
	now := time.Now()
	c.Promoted = true
	c.PromotedAt = &now
	c.UpdatedAt = now
}

// BestCheckpoint returns the checkpoint with the highest recorded eval
// accuracy, or nil if none has an accuracy yet. Ties keep the earlier epoch.
func BestCheckpoint(cps []*Checkpoint) *Checkpoint {
	var best *Checkpoint
	for _, cp := range cps {
		if cp.EvalAccuracy == nil {
			continue
		}
		if best == nil || *cp.EvalAccuracy > *best.EvalAccuracy {
			best = cp
		}
	}
	return best
}
