package ports

import (
	"context"

	"entity-linking-service/internal/core/domain"
	"entity-linking-service/internal/dataset"
	"entity-linking-service/internal/eval"
)

// EpochArtifact is one epoch checkpoint directory found under a run's
// output path.
type EpochArtifact struct {
	Epoch        int
	Path         string
	EvalAccuracy *float64 // parsed from the epoch's eval results, if present
	Resumable    bool     // trainer optimizer/scheduler state present
}

// ArtifactStore abstracts the filesystem layout the external trainer writes:
// per-epoch checkpoint directories, eval results, and prediction dumps.
type ArtifactStore interface {
	// ListEpochs scans outputPath for epoch checkpoint directories.
	ListEpochs(ctx context.Context, outputPath string) ([]EpochArtifact, error)
	// Promote copies the given epoch's model files into the run root so
	// downstream consumers load the best checkpoint by default.
	Promote(ctx context.Context, outputPath string, epoch int) error
	// HasPredictions reports whether a predictions directory contains a
	// completed dump (runtime marker present).
	HasPredictions(ctx context.Context, predsDir string) (bool, error)
	// ReadRuntime returns the recorded wall-clock seconds of a finished
	// prediction dump.
	ReadRuntime(ctx context.Context, predsDir string) (float64, error)
	// ReadPredictions parses the completed dump under predsDir.
	ReadPredictions(ctx context.Context, predsDir string) ([]eval.PredictionRecord, error)
	// LoadMentions reads a mentions dataset, mapping gold labels through
	// the catalogue at catalogPath. A non-empty entitiesPath restricts the
	// label space to that evaluation entity subset.
	LoadMentions(ctx context.Context, catalogPath, entitiesPath, mentionsPath string, mode domain.MentionMode) ([]dataset.Sample, dataset.Stats, error)
}
