package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/errors"
)

// fakeEmbedder returns fixed vectors keyed by text so retrieval tests are
// deterministic and offline.
type fakeEmbedder struct {
	vectors map[string][]float32
	queries map[string][]float32
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := f.queries[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	require.NoError(t, err)
	return logger
}

func TestFuseRankingsRewardsAgreement(t *testing.T) {
	shared := Document{ID: "shared"}
	vectorOnly := Document{ID: "vector-only"}
	keywordOnly := Document{ID: "keyword-only"}

	vectorRanking := []Scored{{Document: vectorOnly, Score: 0.9}, {Document: shared, Score: 0.8}}
	keywordRanking := []Scored{{Document: keywordOnly, Score: 5.0}, {Document: shared, Score: 4.0}}

	fused := fuseRankings(3, vectorRanking, keywordRanking)
	require.Len(t, fused, 3)
	// The document both rankings contain wins despite being second in each
	assert.Equal(t, "shared", fused[0].ID)
}

func TestFuseRankingsLimitsToK(t *testing.T) {
	ranking := []Scored{
		{Document: Document{ID: "a"}},
		{Document: Document{ID: "b"}},
		{Document: Document{ID: "c"}},
	}
	fused := fuseRankings(2, ranking)
	assert.Len(t, fused, 2)
}

func TestRetrieveHybrid(t *testing.T) {
	docs := []Document{
		{ID: "go", Text: "goroutines and channels in Go"},
		{ID: "sql", Text: "SQL joins and indexes"},
		{ID: "react", Text: "react hooks and components"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	store := NewVectorStore()
	require.NoError(t, store.Add(docs, vectors))
	keywords := NewBM25Index(docs)

	embedder := &fakeEmbedder{
		queries: map[string][]float32{
			"tell me about goroutines": {1, 0.1, 0},
		},
	}

	retriever := NewHybridRetriever(store, keywords, embedder, 2, testLogger(t))
	results, err := retriever.Retrieve(context.Background(), "tell me about goroutines")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	// Semantically and lexically closest document ranks first
	assert.Equal(t, "go", results[0].ID)
	assert.LessOrEqual(t, len(results), 2)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	retriever := NewHybridRetriever(NewVectorStore(), NewBM25Index(nil), &fakeEmbedder{}, 3, testLogger(t))

	_, err := retriever.Retrieve(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index is empty")
}
