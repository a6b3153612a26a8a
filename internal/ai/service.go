package ai

import (
	"context"
	"fmt"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
)

// Service handles AI operations for one configured operation
type Service struct {
	Provider Provider // Exported for access from server package
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService creates an AI service instance configured for a specific operation
func NewService(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*Service, error) {
	var provider Provider
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation", operation,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operation, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}

// Close releases the underlying provider
func (s *Service) Close() error {
	return s.Provider.Close()
}

// Services bundles one AI service per operation. Building them all up front
// lets each operation carry its own model, timeouts, and circuit breakers.
type Services struct {
	byOperation map[string]*Service
	logger      *errors.Logger
}

// NewServices builds a service for every known operation
func NewServices(cfg *config.Config, logger *errors.Logger) (*Services, error) {
	services := &Services{
		byOperation: make(map[string]*Service, len(config.Operations)),
		logger:      logger,
	}

	for _, op := range config.Operations {
		opCfg := cfg.OperationConfig(op)
		svc, err := NewService(&opCfg, op, logger)
		if err != nil {
			services.Close()
			return nil, fmt.Errorf("failed to create AI service for operation %s: %w", op, err)
		}
		services.byOperation[op] = svc
	}

	return services, nil
}

// For returns the service configured for the named operation
func (s *Services) For(operation string) *Service {
	return s.byOperation[operation]
}

// Provider returns the provider configured for the named operation
func (s *Services) Provider(operation string) Provider {
	if svc := s.byOperation[operation]; svc != nil {
		return svc.Provider
	}
	return nil
}

// CircuitBreakerStats aggregates breaker statistics across operations
func (s *Services) CircuitBreakerStats() map[string]any {
	stats := make(map[string]any, len(s.byOperation))
	for op, svc := range s.byOperation {
		stats[op] = svc.Provider.GetCircuitBreakerStats()
	}
	return stats
}

// Close releases every provider
func (s *Services) Close() {
	for op, svc := range s.byOperation {
		if err := svc.Close(); err != nil {
			s.logger.Warn("Failed to close AI service", "operation", op, "error", err.Error())
		}
	}
}
