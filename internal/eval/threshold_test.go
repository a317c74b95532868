package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-linking-service/internal/core/domain"
)

func TestFinalTriples_EmptyModeKeepsDump(t *testing.T) {
	rec := PredictionRecord{
		Scores:      []float64{2.0, -1.0},
		PredTriples: []WireTriple{{KBID: "Q1", Start: 0, End: 5}, {KBID: "Q2", Start: 6, End: 10}},
	}

	final := FinalTriples(rec, "")

	require.Len(t, final, 2)
	assert.Equal(t, "Q1", final[0].KBID)
	assert.Equal(t, "Q2", final[1].KBID)
}

func TestFinalTriples_JointZero(t *testing.T) {
	rec := PredictionRecord{
		Scores:      []float64{2.0, -1.0},
		PredTriples: []WireTriple{{KBID: "Q1", Start: 0, End: 5}, {KBID: "Q2", Start: 6, End: 10}},
	}

	final := FinalTriples(rec, domain.ThresholdJointZero)

	require.Len(t, final, 1)
	assert.Equal(t, Triple{KBID: "Q1", Start: 0, End: 5}, final[0])
}

func TestFinalTriples_TopPerSpan(t *testing.T) {
	rec := PredictionRecord{
		Scores: []float64{3.0, 2.5, 1.0},
		PredTriples: []WireTriple{
			{KBID: "Q1", Start: 0, End: 5},
			{KBID: "Q2", Start: 0, End: 5},
			{KBID: "Q3", Start: 6, End: 10},
		},
	}

	final := FinalTriples(rec, domain.ThresholdTopJointByMention)

	require.Len(t, final, 2)
	assert.Equal(t, Triple{KBID: "Q1", Start: 0, End: 5}, final[0])
	assert.Equal(t, Triple{KBID: "Q3", Start: 6, End: 10}, final[1])
}

func TestFinalTriples_PrunesOverlaps(t *testing.T) {
	rec := PredictionRecord{
		Scores: []float64{5.0, 4.0},
		PredTriples: []WireTriple{
			{KBID: "Q1", Start: 0, End: 6},
			{KBID: "Q2", Start: 4, End: 9},
		},
	}

	final := FinalTriples(rec, domain.ThresholdJointZero)

	// Both score positive but the spans overlap; the higher score wins.
	require.Len(t, final, 1)
	assert.Equal(t, "Q1", final[0].KBID)
}
