package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeMentionCandidates(t *testing.T) {
	merged := MergeMentionCandidates([]Candidates{
		{IDs: []string{"Q1", "Q2"}, Scores: []float64{0.9, 0.2}},
		{IDs: []string{"Q3", "Q4"}, Scores: []float64{0.7, 0.5}},
	})

	assert.Equal(t, []string{"Q1", "Q3", "Q4", "Q2"}, merged.IDs)
	assert.Equal(t, []float64{0.9, 0.7, 0.5, 0.2}, merged.Scores)
	assert.Equal(t, []int{0, 1, 1, 0}, merged.BoundIdx)
}

func TestMergeMentionCandidates_StableOnTies(t *testing.T) {
	merged := MergeMentionCandidates([]Candidates{
		{IDs: []string{"Q1"}, Scores: []float64{0.5}},
		{IDs: []string{"Q2"}, Scores: []float64{0.5}},
	})

	// Equal scores keep the earlier span first.
	assert.Equal(t, []string{"Q1", "Q2"}, merged.IDs)
	assert.Equal(t, []int{0, 1}, merged.BoundIdx)
}

func TestTopPerSpan(t *testing.T) {
	merged := MergeMentionCandidates([]Candidates{
		{IDs: []string{"Q1", "Q2"}, Scores: []float64{0.9, 0.2}},
		{IDs: []string{"Q1", "Q3"}, Scores: []float64{0.8, 0.6}},
	})

	picks := merged.TopPerSpan(2)

	// Span 0 takes Q1; span 1 skips the already-taken Q1 and takes Q3.
	assert.Len(t, picks, 2)
	assert.Equal(t, "Q1", merged.IDs[picks[0]])
	assert.Equal(t, 0, merged.BoundIdx[picks[0]])
	assert.Equal(t, "Q3", merged.IDs[picks[1]])
	assert.Equal(t, 1, merged.BoundIdx[picks[1]])
}

func TestTopPerSpan_SpanWithNoCandidates(t *testing.T) {
	merged := MergeMentionCandidates([]Candidates{
		{IDs: []string{"Q1"}, Scores: []float64{0.9}},
	})

	picks := merged.TopPerSpan(3)
	assert.Len(t, picks, 1)
}

func TestAboveZero(t *testing.T) {
	merged := MergeMentionCandidates([]Candidates{
		{IDs: []string{"Q1", "Q2", "Q3"}, Scores: []float64{1.5, -0.3, 0.2}},
	})

	picks := merged.AboveZero()

	assert.Equal(t, []int{0, 1}, picks)
	assert.Equal(t, "Q1", merged.IDs[picks[0]])
	assert.Equal(t, "Q3", merged.IDs[picks[1]])
}
