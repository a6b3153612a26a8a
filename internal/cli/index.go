package cli

import (
	"fmt"

	"careerpilot/internal/ai"
	"careerpilot/internal/rag"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the interview-prep knowledge base index",
	Long: `Build the retrieval index for the interview-prep chatbot from the JSON
Q&A files in the configured knowledge base directory. Chunks are embedded via
the configured embedding model and the index is persisted to disk so the serve
command can load it without re-embedding.

With --watch the command keeps running and reindexes when knowledge base
files change.`,
	RunE: runIndex,
}

var indexWatch bool

func init() {
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "Keep running and reindex on knowledge base changes")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	embedder, err := ai.NewEmbedder(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	indexer := rag.NewIndexer(cfg.RAG, embedder, logger)

	logger.Info("Building knowledge base index",
		"knowledge_base_dir", cfg.RAG.KnowledgeBaseDir,
		"index_path", cfg.RAG.IndexPath)

	if err := indexer.Build(cmd.Context()); err != nil {
		return fmt.Errorf("failed to build knowledge base index: %w", err)
	}
	logger.Info("Knowledge base index built successfully")

	if !indexWatch {
		return nil
	}

	watcher := rag.NewWatcher(indexer, cfg.RAG.WatchDebounce, logger)
	if err := watcher.Start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start knowledge base watcher: %w", err)
	}

	logger.Info("Watching knowledge base for changes", "dir", cfg.RAG.KnowledgeBaseDir)

	// Block until the command context is cancelled (SIGINT/SIGTERM)
	<-cmd.Context().Done()
	return watcher.Stop()
}
