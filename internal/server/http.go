// Package server exposes the CareerPilot operations over HTTP: synchronous
// endpoints for matching, ATS scoring, and the interview toolkit, and an
// asynchronous portfolio build flow backed by the background task manager.
package server

import (
	"time"

	"careerpilot/internal/ai"
	"careerpilot/internal/ats"
	"careerpilot/internal/background"
	"careerpilot/internal/config"
	careerpilotErrors "careerpilot/internal/errors"
	"careerpilot/internal/interview"
	"careerpilot/internal/match"
	"careerpilot/internal/observability"
	"careerpilot/internal/portfolio"
	"careerpilot/internal/rag"
)

// GenerateRequest represents the request body for the portfolio generate endpoint
type GenerateRequest struct {
	ResumeText  string `json:"resumeText"`
	UserPrompt  string `json:"userPrompt,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
}

// MatchRequest represents the request body for the match endpoint
type MatchRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// ATSRequest represents the request body for the ATS endpoint
type ATSRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// QuestionsRequest represents the request body for the question generation endpoint
type QuestionsRequest struct {
	JobDescription string   `json:"jobDescription"`
	NumQuestions   int      `json:"numQuestions,omitempty"`
	QuestionTypes  []string `json:"questionTypes,omitempty"`
}

// MockAnalyzeRequest represents the request body for the mock interview endpoint
type MockAnalyzeRequest struct {
	JobDescription string                  `json:"jobDescription,omitempty"`
	Answers        []interview.AnswerInput `json:"answers"`
}

// ChatRequest represents the request body for the interview-prep chat endpoint
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

// SessionRequest represents the request body for session create and rename
type SessionRequest struct {
	Title string `json:"title"`
}

// TaskAcceptedResponse is returned when an async task is queued
type TaskAcceptedResponse struct {
	ProcessID string `json:"processId"`
	Status    string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Services bundles the application services the HTTP handlers dispatch to
type Services struct {
	AI        *ai.Services
	Builder   *portfolio.Builder
	Matcher   *match.Pipeline
	ATS       *ats.Analyzer
	Questions *interview.QuestionService
	Interview *interview.Analyzer
	Chat      *interview.Chat
	Sessions  *interview.SessionStore
	Tasks     *background.Manager

	// KBWatcher reindexes the knowledge base on file changes; held here so
	// shutdown can stop it alongside the task manager. Nil unless rag.watch
	// is enabled.
	KBWatcher *rag.Watcher
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Application services
	Services *Services

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	// Observability, set when the server starts
	Obs *observability.ObservabilityManager

	// Logger
	Logger *careerpilotErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, services *Services, logger *careerpilotErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewLimiterManager(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Services:       services,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
