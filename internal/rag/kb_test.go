package rag

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/config"
)

func writeKBFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadKnowledgeBase(t *testing.T) {
	dir := t.TempDir()
	writeKBFile(t, dir, "behavioral.json", `[
		{"question": "Tell me about a conflict", "answer": "Use the STAR method.", "category": "behavioral"},
		{"question": "", "answer": ""}
	]`)
	writeKBFile(t, dir, "technical.json", `[
		{"question": "What is a goroutine?", "answer": "A lightweight thread."}
	]`)

	docs, err := LoadKnowledgeBase(dir)
	require.NoError(t, err)
	// The empty entry is skipped
	require.Len(t, docs, 2)

	assert.Equal(t, "behavioral.json#0", docs[0].ID)
	assert.Contains(t, docs[0].Text, "[behavioral]")
	assert.Contains(t, docs[0].Text, "Q: Tell me about a conflict")
	assert.Contains(t, docs[0].Text, "A: Use the STAR method.")
	assert.Equal(t, "behavioral.json", docs[0].Source)

	assert.Equal(t, "technical.json#0", docs[1].ID)
}

func TestLoadKnowledgeBaseEmptyDir(t *testing.T) {
	_, err := LoadKnowledgeBase(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No knowledge base files")
}

func TestLoadKnowledgeBaseMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeKBFile(t, dir, "broken.json", `{"not": "an array"}`)

	_, err := LoadKnowledgeBase(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON array")
}

func TestIndexerBuildAndSnapshot(t *testing.T) {
	kbDir := t.TempDir()
	writeKBFile(t, kbDir, "faq.json", `[
		{"question": "What is Redis?", "answer": "An in-memory data store."},
		{"question": "What is BM25?", "answer": "A keyword ranking function."}
	]`)

	cfg := config.RAGConfig{
		KnowledgeBaseDir: kbDir,
		IndexPath:        filepath.Join(t.TempDir(), "kb.index"),
		ChunkSize:        500,
		ChunkOverlap:     50,
		TopK:             2,
	}

	indexer := NewIndexer(cfg, &fakeEmbedder{}, testLogger(t))
	assert.False(t, indexer.Ready())

	require.NoError(t, indexer.Build(context.Background()))
	assert.True(t, indexer.Ready())
	assert.Equal(t, 2, indexer.Store().Len())

	// A fresh indexer restores from the snapshot without re-embedding
	restored := NewIndexer(cfg, &fakeEmbedder{}, testLogger(t))
	require.NoError(t, restored.LoadSnapshot())
	assert.Equal(t, 2, restored.Store().Len())

	// And Ensure prefers the snapshot when it exists
	ensured := NewIndexer(cfg, &fakeEmbedder{}, testLogger(t))
	require.NoError(t, ensured.Ensure(context.Background()))
	assert.True(t, ensured.Ready())
}
