package rag

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"careerpilot/internal/errors"
)

// VectorStore is an in-memory vector index over documents with cosine
// similarity search and gob snapshot persistence. Reads and writes are
// safe for concurrent use.
type VectorStore struct {
	mu      sync.RWMutex
	docs    []Document
	vectors [][]float32
}

// storeSnapshot is the gob-encoded on-disk form of the store
type storeSnapshot struct {
	Docs    []Document
	Vectors [][]float32
}

// NewVectorStore creates an empty store
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Add appends documents with their vectors. Lengths must match.
func (s *VectorStore) Add(docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return errors.NewStorageError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("document/vector count mismatch: %d vs %d", len(docs), len(vectors)), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, docs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Replace swaps the entire index contents atomically, used on reindex
func (s *VectorStore) Replace(docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return errors.NewStorageError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("document/vector count mismatch: %d vs %d", len(docs), len(vectors)), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
	s.vectors = vectors
	return nil
}

// Len returns the number of indexed documents
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Documents returns a copy of the indexed documents
func (s *VectorStore) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Scored pairs a document with a retrieval score
type Scored struct {
	Document Document
	Score    float64
}

// Search returns the k documents most similar to the query vector, ordered
// by descending cosine similarity.
func (s *VectorStore) Search(query []float32, k int) []Scored {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 || k <= 0 {
		return nil
	}

	scored := make([]Scored, 0, len(s.docs))
	for i, vec := range s.vectors {
		scored = append(scored, Scored{
			Document: s.docs[i],
			Score:    CosineSimilarity(query, vec),
		})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// Save writes a gob snapshot of the index to path, creating parent
// directories as needed. The write goes through a temp file and rename so
// a crash cannot leave a truncated snapshot.
func (s *VectorStore) Save(path string) error {
	s.mu.RLock()
	snapshot := storeSnapshot{Docs: s.docs, Vectors: s.vectors}
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.NewStorageError(errors.ErrCodeFileNotFound,
			"Failed to create index directory", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeFileNotFound,
			"Failed to create index snapshot file", err)
	}

	if err := gob.NewEncoder(f).Encode(snapshot); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.NewStorageError(errors.ErrCodeInvalidFormat,
			"Failed to encode index snapshot", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.NewStorageError(errors.ErrCodeFileNotFound,
			"Failed to close index snapshot file", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.NewStorageError(errors.ErrCodeFileNotFound,
			"Failed to move index snapshot into place", err)
	}

	return nil
}

// Load reads a gob snapshot from path into the store, replacing contents
func (s *VectorStore) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeFileNotFound,
			"Failed to open index snapshot", err)
	}
	defer f.Close()

	var snapshot storeSnapshot
	if err := gob.NewDecoder(f).Decode(&snapshot); err != nil {
		return errors.NewStorageError(errors.ErrCodeInvalidFormat,
			"Failed to decode index snapshot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = snapshot.Docs
	s.vectors = snapshot.Vectors
	return nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
