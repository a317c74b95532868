// Package eval scores linking predictions against gold annotations:
// recall@k over ranked candidate lists and overlap-based precision/recall/F1
// over predicted mention spans.
package eval

// Triple is one linked mention: the KB entity and its character span within
// the utterance. End is exclusive.
type Triple struct {
	KBID  string
	Start int
	End   int
}

// Overlaps reports whether two spans share at least one character.
func (t Triple) Overlaps(o Triple) bool {
	return t.Start < o.End && o.Start < t.End
}

// RecallCurve computes recall@i for i in 1..k: the fraction of queries whose
// gold KB id appears in the top i ranked candidates. Queries with an
// empty candidate list or empty gold id count as misses.
func RecallCurve(golds []string, ranked [][]string, k int) []float64 {
	curve := make([]float64, k)
	if len(golds) == 0 {
		return curve
	}
	for qi, gold := range golds {
		if gold == "" {
			continue
		}
		cands := ranked[qi]
		if len(cands) > k {
			cands = cands[:k]
		}
		for i, c := range cands {
			if c == gold {
				for j := i; j < k; j++ {
					curve[j]++
				}
				break
			}
		}
	}
	for i := range curve {
		curve[i] /= float64(len(golds))
	}
	return curve
}

// OverlapTP counts true positives between gold and predicted triples: a
// prediction matches an unused gold triple when the KB ids are equal and
// the spans overlap. Matching is greedy in prediction order, one gold per
// prediction.
func OverlapTP(gold, pred []Triple) int {
	used := make([]bool, len(gold))
	tp := 0
	for _, p := range pred {
		for gi, g := range gold {
			if used[gi] || g.KBID != p.KBID {
				continue
			}
			if p.Overlaps(g) {
				used[gi] = true
				tp++
				break
			}
		}
	}
	return tp
}

// PruneOverlaps enforces well-formedness over predicted spans: spans are
// visited in their given (score-descending) order, and a span is kept only
// if neither its first nor last character is already claimed by a kept
// span. Returns the indices of kept spans in visit order.
func PruneOverlaps(utteranceLen int, spans []Triple) []int {
	claimed := make([]bool, utteranceLen)
	var kept []int
	for i, s := range spans {
		if s.Start < 0 || s.End > utteranceLen || s.Start >= s.End {
			continue
		}
		if claimed[s.Start] || claimed[s.End-1] {
			continue
		}
		kept = append(kept, i)
		for j := s.Start; j < s.End; j++ {
			claimed[j] = true
		}
	}
	return kept
}

// PrecisionRecallF1 computes the final linking scores. F1 is zero when both
// precision and recall are zero.
func PrecisionRecallF1(tp, predicted, gold int) (p, r, f1 float64) {
	if predicted > 0 {
		p = float64(tp) / float64(predicted)
	}
	if gold > 0 {
		r = float64(tp) / float64(gold)
	}
	if p+r > 0 {
		f1 = 2 * p * r / (p + r)
	}
	return p, r, f1
}
