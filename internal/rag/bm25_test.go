package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bm25TestDocs() []Document {
	return []Document{
		{ID: "goroutines", Text: "Goroutines are lightweight threads managed by the Go runtime"},
		{ID: "channels", Text: "Channels are typed conduits for communication between goroutines"},
		{ID: "interviews", Text: "Behavioral interviews assess communication and teamwork skills"},
		{ID: "sql", Text: "SQL joins combine rows from two tables based on a related column"},
	}
}

func TestBM25RanksExactTermsFirst(t *testing.T) {
	idx := NewBM25Index(bm25TestDocs())

	results := idx.Search("SQL joins tables", 4)
	require.NotEmpty(t, results)
	assert.Equal(t, "sql", results[0].Document.ID)
}

func TestBM25OmitsUnrelatedDocuments(t *testing.T) {
	idx := NewBM25Index(bm25TestDocs())

	results := idx.Search("kubernetes deployment", 4)
	assert.Empty(t, results)
}

func TestBM25CaseInsensitive(t *testing.T) {
	idx := NewBM25Index(bm25TestDocs())

	lower := idx.Search("goroutines", 4)
	upper := idx.Search("GOROUTINES", 4)
	require.NotEmpty(t, lower)
	require.Equal(t, len(lower), len(upper))
	assert.Equal(t, lower[0].Document.ID, upper[0].Document.ID)
}

func TestBM25SharedTermRanking(t *testing.T) {
	idx := NewBM25Index(bm25TestDocs())

	// "communication" appears in channels and interviews docs; both should
	// surface, ranked above docs without the term.
	results := idx.Search("communication", 4)
	require.Len(t, results, 2)
	ids := []string{results[0].Document.ID, results[1].Document.ID}
	assert.Contains(t, ids, "channels")
	assert.Contains(t, ids, "interviews")
}

func TestBM25EmptyIndex(t *testing.T) {
	idx := NewBM25Index(nil)
	assert.Empty(t, idx.Search("anything", 3))
}

func TestBM25Replace(t *testing.T) {
	idx := NewBM25Index(bm25TestDocs())
	idx.Replace([]Document{{ID: "only", Text: "redis caching strategies"}})

	assert.Empty(t, idx.Search("goroutines", 3))
	results := idx.Search("redis", 3)
	require.Len(t, results, 1)
	assert.Equal(t, "only", results[0].Document.ID)
}
