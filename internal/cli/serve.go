package cli

import (
	"fmt"

	"careerpilot/internal/ai"
	"careerpilot/internal/ats"
	"careerpilot/internal/background"
	"careerpilot/internal/config"
	"careerpilot/internal/errors"
	"careerpilot/internal/interview"
	"careerpilot/internal/match"
	"careerpilot/internal/observability"
	"careerpilot/internal/portfolio"
	"careerpilot/internal/rag"
	"careerpilot/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CareerPilot HTTP API server",
	Long: `Start an HTTP server exposing the CareerPilot operations as REST endpoints.

Available endpoints:
- POST /portfolio/generate: Queue a portfolio site build (async, returns a process ID)
- GET /portfolio/status/{id}: Check a build's status
- GET /portfolio/download/{projectID}: Download a finished site as a zip
- POST /match: Score a resume against a job description
- POST /ats: Run ATS compatibility checks
- POST /mock/questions: Generate interview questions
- POST /mock/analyze: Analyze mock interview answers
- POST /interview/chat and /interview/sessions...: Interview-prep chatbot
- GET /health, GET /stats

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("server.tls.mode", "tls-mode")
	bindFlag("server.tls.certfile", "cert-file")
	bindFlag("server.tls.keyfile", "key-file")
	bindFlag("server.tls.cafile", "ca-file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	// Observability comes up first so the AI providers can be instrumented
	obsConfig := observability.GetObservabilityConfig(cfg, Version)
	om, err := observability.NewObservabilityManager(obsConfig, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}

	services, err := buildServices(cmd, cfg, om, logger)
	if err != nil {
		return err
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}

	srv := server.NewServer(cfg, serverCfg, services, logger)
	srv.Obs = om
	return srv.Start()
}

// buildServices wires the application services the HTTP handlers need. The AI
// services are built once and shared; per-request construction would redo
// provider setup and lose circuit breaker state.
func buildServices(cmd *cobra.Command, cfg *config.Config, om *observability.ObservabilityManager, logger *errors.Logger) (*server.Services, error) {
	aiServices, err := ai.NewServices(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI services: %w", err)
	}
	aiServices.Instrument(om)

	builder, err := portfolio.NewBuilder(portfolio.GeneratorsFromServices(aiServices), cfg.Portfolio, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio builder: %w", err)
	}

	embedder, err := ai.NewEmbedder(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	matcher, err := match.NewPipeline(embedder, aiServices.Provider(config.OpMatchAdvice), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create match pipeline: %w", err)
	}

	services := &server.Services{
		AI:        aiServices,
		Builder:   builder,
		Matcher:   matcher,
		ATS:       ats.NewAnalyzer(),
		Questions: interview.NewQuestionService(aiServices.Provider(config.OpQuestions), logger),
		Interview: interview.NewAnalyzer(aiServices.Provider(config.OpAssessAnswer), logger),
	}

	// Background task manager: Redis-backed store when Redis is enabled so
	// task state survives restarts, in-memory otherwise
	var taskStore background.TaskStore = background.NewInMemoryTaskStore()
	if cfg.Redis.Enabled {
		redisClient, err := interview.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		taskStore = background.NewRedisTaskStore(redisClient, cfg.Redis.KeyPrefix, cfg.Background.ResultTTL)

		sessions := interview.NewSessionStore(redisClient, cfg.Redis.KeyPrefix, logger)
		services.Sessions = sessions

		// The chat service needs the retrieval index; load the snapshot or
		// build it if the knowledge base changed
		indexer := rag.NewIndexer(cfg.RAG, embedder, logger)
		if err := indexer.Ensure(cmd.Context()); err != nil {
			return nil, fmt.Errorf("failed to prepare knowledge base index: %w", err)
		}

		if cfg.RAG.Watch {
			watcher := rag.NewWatcher(indexer, cfg.RAG.WatchDebounce, logger)
			if err := watcher.Start(cmd.Context()); err != nil {
				logger.Warn("Knowledge base watcher failed to start", "error", err.Error())
			} else {
				// The server stops the watcher during graceful shutdown
				services.KBWatcher = watcher
			}
		}

		services.Chat = interview.NewChat(sessions, indexer.Retriever(),
			aiServices.Provider(config.OpChatRespond), cfg.RAG.HistoryWindow, logger)
	} else {
		logger.Warn("Redis disabled: interview chat sessions and durable task state are unavailable")
	}

	manager := background.NewManager(cfg.Background, taskStore, logger)
	manager.Start()
	services.Tasks = manager

	return services, nil
}
