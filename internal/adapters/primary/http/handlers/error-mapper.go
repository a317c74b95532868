package handlers

import (
	"errors"
	"net/http"

	"entity-linking-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrTrainingRunNotFound),
		errors.Is(err, domain.ErrCheckpointNotFound),
		errors.Is(err, domain.ErrLinkingJobNotFound),
		errors.Is(err, domain.ErrCatalogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrTrainingRunNameConflict),
		errors.Is(err, domain.ErrCheckpointConflict),
		errors.Is(err, domain.ErrCatalogNameConflict),
		errors.Is(err, domain.ErrJobAlreadyLaunched),
		errors.Is(err, domain.ErrPromotionTargetDirty),
		errors.Is(err, domain.ErrCatalogInUse),
		errors.Is(err, domain.ErrRunStillActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidTrainingRunName),
		errors.Is(err, domain.ErrMissingProjectID),
		errors.Is(err, domain.ErrInvalidDataPath),
		errors.Is(err, domain.ErrInvalidOutputPath),
		errors.Is(err, domain.ErrInvalidGradAccSteps),
		errors.Is(err, domain.ErrInvalidBatchSize),
		errors.Is(err, domain.ErrRunNotCancellable),
		errors.Is(err, domain.ErrRunNotLaunchable),
		errors.Is(err, domain.ErrNoPromotableEpoch),
		errors.Is(err, domain.ErrInvalidEpochIndex),
		errors.Is(err, domain.ErrRunNotFinished),
		errors.Is(err, domain.ErrInvalidMentionsPath),
		errors.Is(err, domain.ErrInvalidTopK),
		errors.Is(err, domain.ErrInvalidMentionMode),
		errors.Is(err, domain.ErrInvalidThresholding),
		errors.Is(err, domain.ErrThresholdRequired),
		errors.Is(err, domain.ErrJobNotLaunchable),
		errors.Is(err, domain.ErrPredictionsNotReady),
		errors.Is(err, domain.ErrMetricsNotComputed),
		errors.Is(err, domain.ErrInvalidCatalogName),
		errors.Is(err, domain.ErrInvalidCatalogPath),
		errors.Is(err, domain.ErrDuplicateWikipediaID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrLauncherUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
