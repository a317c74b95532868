package eval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"entity-linking-service/internal/core/domain"
)

// PredictionRecord is one line of the linker's prediction dump
// (biencoder_outs.jsonl): the ranked candidates for one query plus the gold
// annotations to score against.
type PredictionRecord struct {
	QueryID         string       `json:"q_id"`
	TopKBID         string       `json:"top_KBid"`
	GoldKBID        string       `json:"gold_KBid"`
	SortedPredKBIDs []string     `json:"sorted_pred_KBids"`
	Scores          []float64    `json:"scores"`
	PredTriples     []WireTriple `json:"pred_triples"`
	GoldTriples     []WireTriple `json:"gold_triples"`
}

// WireTriple is a (kb id, start, end) tuple serialized as a mixed JSON
// array, e.g. ["Q42", 10, 15].
type WireTriple Triple

func (t *WireTriple) UnmarshalJSON(data []byte) error {
	var raw [3]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &t.KBID); err != nil {
		return fmt.Errorf("triple kb id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &t.Start); err != nil {
		return fmt.Errorf("triple start: %w", err)
	}
	if err := json.Unmarshal(raw[2], &t.End); err != nil {
		return fmt.Errorf("triple end: %w", err)
	}
	return nil
}

func (t WireTriple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{t.KBID, t.Start, t.End})
}

// ReadPredictions loads a prediction dump.
func ReadPredictions(path string) ([]PredictionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open predictions: %w", err)
	}
	defer f.Close()

	var records []PredictionRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec PredictionRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("parse predictions line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	return records, nil
}

// Report is the scored summary of a prediction dump.
type Report struct {
	Accuracy     float64
	RecallAtK    []float64
	Precision    float64
	Recall       float64
	F1           float64
	NumQueries   int
	NumPredicted int
	NumGold      int
}

// Score evaluates a prediction dump. Recall@k is computed over the ranked
// candidate lists; precision/recall/F1 over the span triples with
// overlap-based matching, after the final thresholding is applied to the
// predicted spans.
func Score(records []PredictionRecord, topK int, thresholding domain.Thresholding) Report {
	golds := make([]string, len(records))
	ranked := make([][]string, len(records))
	tp, predicted, gold := 0, 0, 0

	for i, rec := range records {
		golds[i] = rec.GoldKBID
		ranked[i] = rec.SortedPredKBIDs

		g := triples(rec.GoldTriples)
		p := FinalTriples(rec, thresholding)
		tp += OverlapTP(g, p)
		predicted += len(p)
		gold += len(g)
	}

	curve := RecallCurve(golds, ranked, topK)
	p, r, f1 := PrecisionRecallF1(tp, predicted, gold)

	rep := Report{
		RecallAtK:    curve,
		Precision:    p,
		Recall:       r,
		F1:           f1,
		NumQueries:   len(records),
		NumPredicted: predicted,
		NumGold:      gold,
	}
	if len(curve) > 0 {
		rep.Accuracy = curve[0]
	}
	return rep
}

func triples(ws []WireTriple) []Triple {
	ts := make([]Triple, len(ws))
	for i, w := range ws {
		ts[i] = Triple(w)
	}
	return ts
}
