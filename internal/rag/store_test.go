package rag

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{name: "identical vectors", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, expected: 1.0},
		{name: "orthogonal vectors", a: []float32{1, 0}, b: []float32{0, 1}, expected: 0.0},
		{name: "opposite vectors", a: []float32{1, 0}, b: []float32{-1, 0}, expected: -1.0},
		{name: "mismatched lengths", a: []float32{1, 2}, b: []float32{1, 2, 3}, expected: 0.0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 2}, expected: 0.0},
		{name: "empty vectors", a: nil, b: nil, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	store := NewVectorStore()
	docs := []Document{
		{ID: "x-axis", Text: "points along x"},
		{ID: "y-axis", Text: "points along y"},
		{ID: "diagonal", Text: "points diagonally"},
	}
	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{0.7, 0.7},
	}
	require.NoError(t, store.Add(docs, vectors))

	results := store.Search([]float32{1, 0.1}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "x-axis", results[0].Document.ID)
	assert.Equal(t, "diagonal", results[1].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchEmptyStore(t *testing.T) {
	store := NewVectorStore()
	assert.Nil(t, store.Search([]float32{1, 0}, 5))
}

func TestAddCountMismatch(t *testing.T) {
	store := NewVectorStore()
	err := store.Add([]Document{{ID: "a"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "kb.index")

	store := NewVectorStore()
	docs := []Document{
		{ID: "faq.json#0", Text: "Q: What is a goroutine?\nA: A lightweight thread.", Source: "faq.json"},
		{ID: "faq.json#1", Text: "Q: What is a channel?\nA: A typed conduit.", Source: "faq.json"},
	}
	vectors := [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}
	require.NoError(t, store.Add(docs, vectors))
	require.NoError(t, store.Save(path))

	restored := NewVectorStore()
	require.NoError(t, restored.Load(path))

	assert.Equal(t, 2, restored.Len())
	assert.Equal(t, docs, restored.Documents())

	results := restored.Search([]float32{0.4, 0.5, 0.6}, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "faq.json#1", results[0].Document.ID)
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := NewVectorStore()
	err := store.Load(filepath.Join(t.TempDir(), "missing.index"))
	assert.Error(t, err)
}

func TestReplaceSwapsContents(t *testing.T) {
	store := NewVectorStore()
	require.NoError(t, store.Add([]Document{{ID: "old"}}, [][]float32{{1}}))

	require.NoError(t, store.Replace([]Document{{ID: "new-1"}, {ID: "new-2"}}, [][]float32{{1}, {0.5}}))
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "new-1", store.Documents()[0].ID)
}
