package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-linking-service/internal/core/domain"
)

func writeCatalogue(t *testing.T, lines string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "entity.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogue(t, `{"title":"Douglas Adams","text":"English author.","idx":"https://en.wikipedia.org/wiki?curid=8091","kb_idx":"Q42"}
{"title":"London","text":"Capital of England.","idx":"https://en.wikipedia.org/wiki?curid=17867","kb_idx":"Q84"}
{"title":"Obscure Place","text":"No kb id."}
`)

	c, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 1, c.MissingKBIDs)

	// Local ids follow file order.
	assert.Equal(t, 0, c.TitleToID["Douglas Adams"])
	assert.Equal(t, 1, c.TitleToID["London"])
	assert.Equal(t, "London", c.IDToTitle[1])
	assert.Equal(t, "Capital of England.", c.IDToText[1])

	assert.Equal(t, 0, c.KBToID["Q42"])
	assert.Equal(t, "Q84", c.IDToKB[1])
	assert.Equal(t, 0, c.WikipediaToID[8091])
	assert.Equal(t, 1, c.WikipediaToID[17867])
}

func TestLoad_DuplicateWikipediaID(t *testing.T) {
	path := writeCatalogue(t, `{"title":"A","text":"a","idx":"https://en.wikipedia.org/wiki?curid=1"}
{"title":"B","text":"b","idx":"https://en.wikipedia.org/wiki?curid=1"}
`)

	_, err := Load(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrDuplicateWikipediaID)
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	path := writeCatalogue(t, `{"title":"A","text":"a"}

{"title":"B","text":"b"}
`)

	c, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoad_MalformedLine(t *testing.T) {
	path := writeCatalogue(t, `{"title":"A","text":"a"}
not json
`)

	_, err := Load(context.Background(), path)
	assert.ErrorContains(t, err, "line 2")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestLoad_CancelledContext(t *testing.T) {
	path := writeCatalogue(t, `{"title":"A","text":"a"}
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseWikipediaID(t *testing.T) {
	id, ok := parseWikipediaID("https://en.wikipedia.org/wiki?curid=12345")
	assert.True(t, ok)
	assert.Equal(t, 12345, id)

	_, ok = parseWikipediaID("https://en.wikipedia.org/wiki/Douglas_Adams")
	assert.False(t, ok)

	_, ok = parseWikipediaID("curid=abc")
	assert.False(t, ok)
}

func TestMapKBIDs(t *testing.T) {
	path := writeCatalogue(t, `{"title":"Douglas Adams","text":"a","kb_idx":"Q42"}
{"title":"London","text":"b","kb_idx":"Q84"}
`)

	c, err := Load(context.Background(), path)
	require.NoError(t, err)

	kbToID, idToKB, missingPages, missingKBIDs := c.MapKBIDs([]Entry{
		{Title: "Douglas Adams", KBIdx: "E_0042"},
		{Title: "London"}, // no kb id in the eval set
		{Title: "Atlantis", KBIdx: "E_9999"},
	})

	assert.Equal(t, map[string]int{"E_0042": 0}, kbToID)
	assert.Equal(t, map[int]string{0: "E_0042"}, idToKB)
	assert.Equal(t, 1, missingPages)
	assert.Equal(t, 1, missingKBIDs)
}
