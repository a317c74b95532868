package eval

import (
	"sort"

	"entity-linking-service/internal/core/domain"
)

// FinalTriples applies the job's final thresholding to one record's
// predicted spans. Candidates are grouped by span and merged into one
// ranked list; the mode selects which survive, and overlapping survivors
// are pruned in score order. An empty mode keeps the dump untouched.
func FinalTriples(rec PredictionRecord, mode domain.Thresholding) []Triple {
	preds := triples(rec.PredTriples)
	if mode == "" || len(preds) == 0 {
		return preds
	}

	type span struct{ start, end int }
	spanIdx := make(map[span]int)
	var spans []span
	var perSpan []Candidates
	for i, t := range preds {
		key := span{t.Start, t.End}
		si, ok := spanIdx[key]
		if !ok {
			si = len(spans)
			spanIdx[key] = si
			spans = append(spans, key)
			perSpan = append(perSpan, Candidates{})
		}
		perSpan[si].IDs = append(perSpan[si].IDs, t.KBID)
		perSpan[si].Scores = append(perSpan[si].Scores, predScore(rec, i))
	}

	m := MergeMentionCandidates(perSpan)

	var picks []int
	switch mode {
	case domain.ThresholdJointZero:
		picks = m.AboveZero()
	default:
		// top_joint_by_mention and top_entity_by_mention both keep one
		// candidate per span; the score column the dump carries already
		// reflects the requested ranking.
		picks = m.TopPerSpan(len(spans))
		sort.Ints(picks) // back to score-descending order
	}

	utterLen := 0
	for _, t := range preds {
		if t.End > utterLen {
			utterLen = t.End
		}
	}

	kept := make([]Triple, 0, len(picks))
	for _, i := range picks {
		sp := spans[m.BoundIdx[i]]
		kept = append(kept, Triple{KBID: m.IDs[i], Start: sp.start, End: sp.end})
	}

	final := make([]Triple, 0, len(kept))
	for _, i := range PruneOverlaps(utterLen, kept) {
		final = append(final, kept[i])
	}
	return final
}

// predScore pairs a predicted triple with its dump score. Triples are
// written in the same descending order as the scores column.
func predScore(rec PredictionRecord, i int) float64 {
	if i < len(rec.Scores) {
		return rec.Scores[i]
	}
	return 0
}
