// Package catalog loads JSON-lines entity catalogues and builds the lookup
// maps the linker needs: title→local id, KB id→local id, and wikipedia
// page id→local id.
package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"entity-linking-service/internal/core/domain"
)

// Entry is one catalogue line. Title and Text are required; Idx carries the
// wikipedia page reference ("...curid=<n>") and KBIdx the knowledge-base id,
// both optional.
type Entry struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Idx   string `json:"idx,omitempty"`
	KBIdx string `json:"kb_idx,omitempty"`
}

// Catalog is the in-memory index over a loaded catalogue.
type Catalog struct {
	TitleToID     map[string]int
	IDToTitle     map[int]string
	IDToText      map[int]string
	KBToID        map[string]int
	IDToKB        map[int]string
	WikipediaToID map[int]int

	// MissingKBIDs counts entries without a kb_idx field.
	MissingKBIDs int
}

// Len returns the number of loaded entities.
func (c *Catalog) Len() int {
	return len(c.IDToTitle)
}

// Load streams a JSON-lines catalogue into lookup maps. Local ids are
// assigned in file order. A duplicate wikipedia page id aborts the load.
func Load(ctx context.Context, path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open entity catalogue: %w", err)
	}
	defer f.Close()

	c := &Catalog{
		TitleToID:     make(map[string]int),
		IDToTitle:     make(map[int]string),
		IDToText:      make(map[int]string),
		KBToID:        make(map[string]int),
		IDToKB:        make(map[int]string),
		WikipediaToID: make(map[int]int),
	}

	scanner := bufio.NewScanner(f)
	// Entity descriptions can run long; the default token limit is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	localID := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("parse catalogue line %d: %w", localID+1, err)
		}

		if entry.Idx != "" {
			if wikiID, ok := parseWikipediaID(entry.Idx); ok {
				if _, dup := c.WikipediaToID[wikiID]; dup {
					return nil, fmt.Errorf("line %d (curid=%d): %w", localID+1, wikiID, domain.ErrDuplicateWikipediaID)
				}
				c.WikipediaToID[wikiID] = localID
			}
		}

		if entry.KBIdx != "" {
			c.KBToID[entry.KBIdx] = localID
			c.IDToKB[localID] = entry.KBIdx
		} else {
			c.MissingKBIDs++
		}

		c.TitleToID[entry.Title] = localID
		c.IDToTitle[localID] = entry.Title
		c.IDToText[localID] = entry.Text
		localID++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read entity catalogue: %w", err)
	}

	return c, nil
}

// ReadEntries loads a JSON-lines entity file as a flat entry list, without
// building lookup maps. Evaluation entity subsets are read this way and
// re-keyed against the main catalogue with MapKBIDs.
func ReadEntries(ctx context.Context, path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open entity file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("parse entity file line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read entity file: %w", err)
	}
	return entries, nil
}

// parseWikipediaID extracts the page id from an idx field of the form
// "https://en.wikipedia.org/wiki?curid=12345".
func parseWikipediaID(idx string) (int, bool) {
	_, after, found := strings.Cut(idx, "curid=")
	if !found {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil {
		return 0, false
	}
	return id, true
}

// MapKBIDs re-keys an evaluation entity set against this catalogue by
// title, returning KB id→local id for the entities present. Entities whose
// title is unknown are counted in missingPages; entities without a kb_idx
// in missingKBIDs.
func (c *Catalog) MapKBIDs(entries []Entry) (kbToID map[string]int, idToKB map[int]string, missingPages, missingKBIDs int) {
	kbToID = make(map[string]int)
	idToKB = make(map[int]string)
	for _, e := range entries {
		localID, ok := c.TitleToID[e.Title]
		if !ok {
			missingPages++
			continue
		}
		if e.KBIdx == "" {
			missingKBIDs++
			continue
		}
		kbToID[e.KBIdx] = localID
		idToKB[localID] = e.KBIdx
	}
	return kbToID, idToKB, missingPages, missingKBIDs
}
