package eval

import "sort"

// Candidates is the ranked candidate list produced for one mention span.
type Candidates struct {
	IDs    []string
	Scores []float64
}

// Merged is the combined candidate list for a query whose encoder pass
// produced several mention spans. BoundIdx records, per candidate, which
// span it came from.
type Merged struct {
	IDs      []string
	Scores   []float64
	BoundIdx []int
}

// MergeMentionCandidates combines the per-span candidate lists of one query
// into a single list sorted by descending score. Ties keep the earlier
// span's candidate first.
func MergeMentionCandidates(perSpan []Candidates) Merged {
	var m Merged
	for si, c := range perSpan {
		for i := range c.IDs {
			m.IDs = append(m.IDs, c.IDs[i])
			m.Scores = append(m.Scores, c.Scores[i])
			m.BoundIdx = append(m.BoundIdx, si)
		}
	}

	order := make([]int, len(m.IDs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.Scores[order[a]] > m.Scores[order[b]]
	})

	out := Merged{
		IDs:      make([]string, len(order)),
		Scores:   make([]float64, len(order)),
		BoundIdx: make([]int, len(order)),
	}
	for i, idx := range order {
		out.IDs[i] = m.IDs[idx]
		out.Scores[i] = m.Scores[idx]
		out.BoundIdx[i] = m.BoundIdx[idx]
	}
	return out
}

// TopPerSpan selects, for each span, its highest-scoring candidate from a
// merged list, skipping entities already selected for an earlier span.
// Returns indices into the merged list, ordered by span.
func (m Merged) TopPerSpan(numSpans int) []int {
	taken := make(map[string]bool)
	var picks []int
	for span := 0; span < numSpans; span++ {
		for i, si := range m.BoundIdx {
			if si != span || taken[m.IDs[i]] {
				continue
			}
			picks = append(picks, i)
			taken[m.IDs[i]] = true
			break
		}
	}
	return picks
}

// AboveZero returns the indices of merged candidates with a positive joint
// score, preserving rank order.
func (m Merged) AboveZero() []int {
	var picks []int
	for i, s := range m.Scores {
		if s > 0 {
			picks = append(picks, i)
		}
	}
	return picks
}
