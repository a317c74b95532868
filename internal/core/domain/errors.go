package domain

import "errors"

// ============================================================================
// Training Run Errors
// ============================================================================

var (
	ErrTrainingRunNotFound     = errors.New("training run not found")
	ErrTrainingRunNameConflict = errors.New("training run with this name already exists in the project")
	ErrInvalidTrainingRunName  = errors.New("training run name is required")
	ErrMissingProjectID        = errors.New("project ID is required (X-Project-ID header)")
	ErrInvalidDataPath         = errors.New("training data path is required")
	ErrInvalidOutputPath       = errors.New("output path is required")
	ErrInvalidGradAccSteps     = errors.New("gradient accumulation steps must be >= 1")
	ErrInvalidBatchSize        = errors.New("train batch size must be >= gradient accumulation steps")
	ErrRunNotCancellable       = errors.New("training run is not in a cancellable state")
	ErrRunNotLaunchable        = errors.New("training run is not in a launchable state")
	ErrRunStillActive          = errors.New("cannot delete an active training run")
)

// ============================================================================
// Checkpoint Errors
// ============================================================================

var (
	ErrCheckpointNotFound   = errors.New("checkpoint not found")
	ErrNoPromotableEpoch    = errors.New("run has no checkpoint with a recorded eval accuracy")
	ErrCheckpointConflict   = errors.New("checkpoint for this epoch already recorded")
	ErrInvalidEpochIndex    = errors.New("epoch index must be >= 0")
	ErrRunNotFinished       = errors.New("checkpoints can only be promoted on finished runs")
	ErrPromotionTargetDirty = errors.New("run root already contains a promoted checkpoint")
)

// ============================================================================
// Linking Job Errors
// ============================================================================

var (
	ErrLinkingJobNotFound     = errors.New("linking job not found")
	ErrInvalidMentionsPath    = errors.New("mentions dataset path is required")
	ErrInvalidTopK            = errors.New("top-k must be >= 1")
	ErrInvalidMentionMode     = errors.New("invalid mention mode")
	ErrInvalidThresholding    = errors.New("invalid final thresholding mode")
	ErrThresholdRequired      = errors.New("mention classifier threshold is required for this mode")
	ErrJobNotLaunchable       = errors.New("linking job is not in a launchable state")
	ErrPredictionsNotReady    = errors.New("predictions are not available for this job yet")
	ErrMetricsNotComputed     = errors.New("metrics have not been computed for this job")
)

// ============================================================================
// Entity Catalog Errors
// ============================================================================

var (
	ErrCatalogNotFound      = errors.New("entity catalog not found")
	ErrCatalogNameConflict  = errors.New("entity catalog with this name already exists in the project")
	ErrInvalidCatalogName   = errors.New("entity catalog name is required")
	ErrInvalidCatalogPath   = errors.New("entity catalog path is required")
	ErrDuplicateWikipediaID = errors.New("duplicate wikipedia ID in entity catalog")
	ErrCatalogInUse         = errors.New("entity catalog is referenced by linking jobs")
)

// ============================================================================
// Launcher Errors
// ============================================================================

var (
	ErrLauncherUnavailable = errors.New("no job launcher is configured")
	ErrJobAlreadyLaunched  = errors.New("job was already launched")
)
