// Package rag implements the retrieval side of the interview-prep chatbot:
// a JSON knowledge base loader, text chunking, an in-memory vector index
// with snapshot persistence, a BM25 keyword index, and a hybrid retriever
// that fuses both rankings.
package rag

import "context"

// Document is one retrievable chunk of knowledge base content
type Document struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"` // knowledge base file the chunk came from
}

// Embedder produces embedding vectors. Satisfied by ai.Embedder; defined
// here so tests can substitute a deterministic implementation.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
