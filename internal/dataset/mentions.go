// Package dataset reads JSON-lines mention datasets: one record per query
// with left/right context, the mention surface form, and the gold KB label.
package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"entity-linking-service/internal/core/domain"
)

// Record is one raw dataset line.
type Record struct {
	QueryID      string `json:"query_id"`
	LabelID      string `json:"label_id"` // gold KB id
	ContextLeft  string `json:"context_left"`
	Mention      string `json:"mention"`
	ContextRight string `json:"context_right"`
}

// Sample is a normalized mention ready for the encoder: contexts and
// mention lowercased, gold label mapped to a catalogue-local id.
type Sample struct {
	QueryID      string
	Label        string // gold KB id
	LabelID      int    // catalogue-local id
	ContextLeft  string
	Mention      string
	ContextRight string
}

// Stats summarizes a dataset load.
type Stats struct {
	Read    int // lines read
	Kept    int // samples produced
	Unknown int // records whose gold label is absent from the catalogue
}

// Load reads a mention dataset and maps gold labels through the catalogue's
// KB id index. Records whose label is unknown to the catalogue are skipped
// and counted, matching the trainer's data loading.
func Load(ctx context.Context, path string, kbToID map[string]int, mode domain.MentionMode) ([]Sample, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open mentions dataset: %w", err)
	}
	defer f.Close()

	var samples []Sample
	var stats Stats

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.Read++

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, stats, fmt.Errorf("parse mentions line %d: %w", stats.Read, err)
		}

		localID, ok := kbToID[rec.LabelID]
		if !ok {
			stats.Unknown++
			continue
		}

		s := Sample{
			QueryID: rec.QueryID,
			Label:   rec.LabelID,
			LabelID: localID,
		}
		switch mode {
		case domain.MentionModeSingle:
			// The whole utterance is the mention; contexts stay empty.
			s.Mention = strings.ToLower(rec.ContextLeft + rec.Mention + rec.ContextRight)
		default:
			// Everything is lowercased before encoding.
			s.ContextLeft = strings.ToLower(rec.ContextLeft)
			s.Mention = strings.ToLower(rec.Mention)
			s.ContextRight = strings.ToLower(rec.ContextRight)
		}

		samples = append(samples, s)
		stats.Kept++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read mentions dataset: %w", err)
	}

	return samples, stats, nil
}

// Utterance reconstructs the full query text of a sample.
func (s Sample) Utterance() string {
	return s.ContextLeft + s.Mention + s.ContextRight
}

// Bounds returns the mention's character span within the utterance.
func (s Sample) Bounds() (start, end int) {
	start = len(s.ContextLeft)
	return start, start + len(s.Mention)
}
