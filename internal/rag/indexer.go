package rag

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
)

// Indexer builds and maintains the knowledge base indexes: it loads the
// JSON knowledge base, chunks the documents, embeds the chunks, and swaps
// the results into the vector and keyword indexes. A gob snapshot avoids
// re-embedding the whole knowledge base on every startup.
type Indexer struct {
	cfg      config.RAGConfig
	embedder Embedder
	chunker  *Chunker
	store    *VectorStore
	keywords *BM25Index
	logger   *errors.Logger
}

// NewIndexer creates an indexer with empty indexes
func NewIndexer(cfg config.RAGConfig, embedder Embedder, logger *errors.Logger) *Indexer {
	return &Indexer{
		cfg:      cfg,
		embedder: embedder,
		chunker:  NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		store:    NewVectorStore(),
		keywords: NewBM25Index(nil),
		logger:   logger,
	}
}

// Store returns the vector index
func (ix *Indexer) Store() *VectorStore { return ix.store }

// Keywords returns the BM25 index
func (ix *Indexer) Keywords() *BM25Index { return ix.keywords }

// Retriever returns a hybrid retriever over the indexer's indexes
func (ix *Indexer) Retriever() *HybridRetriever {
	return NewHybridRetriever(ix.store, ix.keywords, ix.embedder, ix.cfg.TopK, ix.logger)
}

// Ready reports whether the index holds any documents
func (ix *Indexer) Ready() bool {
	return ix.store.Len() > 0
}

// Build loads the knowledge base, chunks and embeds it, replaces the index
// contents, and writes a fresh snapshot.
func (ix *Indexer) Build(ctx context.Context) error {
	tracer := otel.Tracer("careerpilot.rag")
	ctx, span := tracer.Start(ctx, "rag.index_build")
	defer span.End()

	kbDocs, err := LoadKnowledgeBase(ix.cfg.KnowledgeBaseDir)
	if err != nil {
		span.RecordError(err)
		return err
	}

	var chunks []Document
	for _, doc := range kbDocs {
		for i, part := range ix.chunker.Split(doc.Text) {
			chunk := doc
			chunk.Text = part
			if i > 0 {
				chunk.ID = fmt.Sprintf("%s/%d", doc.ID, i)
			}
			chunks = append(chunks, chunk)
		}
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := ix.store.Replace(chunks, vectors); err != nil {
		return err
	}
	ix.keywords.Replace(chunks)

	span.SetAttributes(
		attribute.Int("rag.kb_documents", len(kbDocs)),
		attribute.Int("rag.chunks", len(chunks)),
	)

	if err := ix.store.Save(ix.cfg.IndexPath); err != nil {
		// The in-memory index is usable; losing the snapshot only costs a
		// rebuild on next startup.
		ix.logger.Warn("Failed to persist index snapshot",
			"path", ix.cfg.IndexPath,
			"error", err.Error())
	}

	ix.logger.Info("Knowledge base indexed",
		"documents", len(kbDocs),
		"chunks", len(chunks),
		"snapshot", ix.cfg.IndexPath)

	return nil
}

// LoadSnapshot restores the indexes from the on-disk snapshot. The BM25
// index is rebuilt from the snapshot's documents since it is cheap to
// compute and not worth persisting.
func (ix *Indexer) LoadSnapshot() error {
	if err := ix.store.Load(ix.cfg.IndexPath); err != nil {
		return err
	}
	ix.keywords.Replace(ix.store.Documents())

	ix.logger.Info("Knowledge base index loaded from snapshot",
		"path", ix.cfg.IndexPath,
		"chunks", ix.store.Len())

	return nil
}

// Ensure loads the snapshot if present, otherwise builds from scratch
func (ix *Indexer) Ensure(ctx context.Context) error {
	if err := ix.LoadSnapshot(); err == nil {
		return nil
	}
	return ix.Build(ctx)
}
