package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-linking-service/internal/core/domain"
)

func TestToHyperparameters_Defaults(t *testing.T) {
	var d *HyperparamsDTO

	p := d.ToHyperparameters()

	assert.Equal(t, domain.DefaultHyperparameters(), p)
}

func TestToHyperparameters_Overrides(t *testing.T) {
	lr := 1e-5
	epochs := 5
	shuffle := false
	d := &HyperparamsDTO{
		LearningRate:   &lr,
		NumTrainEpochs: &epochs,
		Shuffle:        &shuffle,
	}

	p := d.ToHyperparameters()

	assert.Equal(t, 1e-5, p.LearningRate)
	assert.Equal(t, 5, p.NumTrainEpochs)
	assert.False(t, p.Shuffle)

	// Untouched fields keep the stock defaults.
	assert.Equal(t, "bert-large-uncased", p.BertModel)
	assert.Equal(t, 128, p.TrainBatchSize)
	assert.Equal(t, -1, p.LastEpoch)
}

func TestToTrainingRunResponse(t *testing.T) {
	run, err := domain.NewTrainingRun(uuid.New(), "zeshel-biencoder", "/data/zeshel", "models/zeshel", domain.DefaultHyperparameters())
	require.NoError(t, err)
	run.MarkRunning("train-5f1c0b3a")

	resp := ToTrainingRunResponse(run)

	assert.Equal(t, run.ID, resp.ID)
	assert.Equal(t, "zeshel-biencoder", resp.Name)
	assert.Equal(t, "RUNNING", resp.Status)
	assert.Equal(t, "train-5f1c0b3a", resp.ExternalID)
	assert.NotNil(t, resp.StartedAt)
	assert.Equal(t, 128, resp.EffectiveBatchSize)
}

func TestToTrainingRunResponse_EffectiveBatchSize(t *testing.T) {
	params := domain.DefaultHyperparameters()
	params.TrainBatchSize = 128
	params.GradAccumulationSteps = 4
	run, err := domain.NewTrainingRun(uuid.New(), "zeshel-biencoder", "/data/zeshel", "models/zeshel", params)
	require.NoError(t, err)

	resp := ToTrainingRunResponse(run)

	assert.Equal(t, 32, resp.EffectiveBatchSize)
}

func TestToLinkingJobResponse_Metrics(t *testing.T) {
	projectID := uuid.New()
	job, err := domain.NewLinkingJob(projectID, uuid.New(), "/data/test.jsonl", "/data/preds", domain.MentionModeGold, 100, "")
	require.NoError(t, err)

	resp := ToLinkingJobResponse(job)
	assert.Nil(t, resp.Metrics)

	job.SetMetrics(domain.LinkingMetrics{Accuracy: 0.79, RecallAtK: []float64{0.79, 0.85}})
	resp = ToLinkingJobResponse(job)

	require.NotNil(t, resp.Metrics)
	assert.Equal(t, 0.79, resp.Metrics.Accuracy)
	assert.Len(t, resp.Metrics.RecallAtK, 2)
}
