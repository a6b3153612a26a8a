package server

import (
	"context"
	"testing"
	"time"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
	"careerpilot/internal/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopComponentsStopsKBWatcher(t *testing.T) {
	logger, err := errors.New("error")
	require.NoError(t, err)

	indexer := rag.NewIndexer(config.RAGConfig{KnowledgeBaseDir: t.TempDir()}, nil, logger)
	watcher := rag.NewWatcher(indexer, time.Second, logger)
	require.NoError(t, watcher.Start(context.Background()))
	require.True(t, watcher.IsRunning())

	srv := NewServer(&config.Config{}, ServerConfig{Version: "test"},
		&Services{KBWatcher: watcher}, logger)

	srv.stopComponents(context.Background())

	assert.False(t, watcher.IsRunning())
}

func TestStopComponentsWithoutWatcher(t *testing.T) {
	logger, err := errors.New("error")
	require.NoError(t, err)

	srv := NewServer(&config.Config{}, ServerConfig{Version: "test"}, &Services{}, logger)
	srv.stopComponents(context.Background())
}
