package rag

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"careerpilot/internal/errors"
)

// rrfK is the rank smoothing constant of reciprocal rank fusion. 60 is the
// value from the original RRF paper and works well without tuning.
const rrfK = 60

// HybridRetriever fuses vector similarity and BM25 keyword rankings with
// reciprocal rank fusion. Semantic search catches paraphrases; keyword
// search catches exact terms; RRF rewards documents both agree on.
type HybridRetriever struct {
	store    *VectorStore
	keywords *BM25Index
	embedder Embedder
	topK     int
	logger   *errors.Logger
}

// NewHybridRetriever creates a retriever over the given indexes
func NewHybridRetriever(store *VectorStore, keywords *BM25Index, embedder Embedder, topK int, logger *errors.Logger) *HybridRetriever {
	return &HybridRetriever{
		store:    store,
		keywords: keywords,
		embedder: embedder,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve returns the topK documents for the query by fused rank
func (r *HybridRetriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	tracer := otel.Tracer("careerpilot.rag")
	ctx, span := tracer.Start(ctx, "rag.retrieve")
	defer span.End()
	span.SetAttributes(attribute.Int("rag.top_k", r.topK))

	if r.store.Len() == 0 {
		return nil, errors.NewStorageError(errors.ErrCodeIndexUnavailable,
			"Knowledge base index is empty", nil)
	}

	queryVec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Pull a wider candidate set from each ranker than we return, so fusion
	// has overlap to work with.
	candidates := r.topK * 4
	vectorHits := r.store.Search(queryVec, candidates)
	keywordHits := r.keywords.Search(query, candidates)

	span.SetAttributes(
		attribute.Int("rag.vector_hits", len(vectorHits)),
		attribute.Int("rag.keyword_hits", len(keywordHits)),
	)

	fused := fuseRankings(r.topK, vectorHits, keywordHits)

	r.logger.Debug("Retrieved knowledge base documents",
		"query_length", len(query),
		"vector_hits", len(vectorHits),
		"keyword_hits", len(keywordHits),
		"returned", len(fused))

	return fused, nil
}

// fuseRankings combines rankings with reciprocal rank fusion: each document
// scores sum(1 / (rrfK + rank)) over the rankings it appears in.
func fuseRankings(k int, rankings ...[]Scored) []Document {
	type fusedEntry struct {
		doc   Document
		score float64
	}
	byID := make(map[string]*fusedEntry)

	for _, ranking := range rankings {
		for rank, hit := range ranking {
			entry, ok := byID[hit.Document.ID]
			if !ok {
				entry = &fusedEntry{doc: hit.Document}
				byID[hit.Document.ID] = entry
			}
			entry.score += 1.0 / float64(rrfK+rank+1)
		}
	}

	fused := make([]fusedEntry, 0, len(byID))
	for _, entry := range byID {
		fused = append(fused, *entry)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].doc.ID < fused[j].doc.ID
	})

	if k > len(fused) {
		k = len(fused)
	}
	docs := make([]Document, k)
	for i := range docs {
		docs[i] = fused[i].doc
	}
	return docs
}
