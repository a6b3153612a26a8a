package ai

import (
	"fmt"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
)

// GenerateBreaker protects content generation calls for one operation
type GenerateBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelBreaker protects model info lookups used by health checks
type ModelBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

// NewGenerateBreaker creates a circuit breaker for one operation's generation
// calls. Returns nil when the breaker is disabled in configuration; a nil
// breaker executes calls directly.
func NewGenerateBreaker(operation string, cfg *config.OperationAIConfig, logger *errors.Logger) *GenerateBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("ai-%s", operation),
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
				failureRatio >= cfg.CircuitBreaker.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation", operation,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &GenerateBreaker{cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings)}
}

// NewModelBreaker creates a circuit breaker for model availability checks.
// Model info is less critical than generation, so the trip threshold is more
// lenient than the configured one.
func NewModelBreaker(operation string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("ai-model-%s", operation),
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation", operation,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &ModelBreaker{cb: gobreaker.NewCircuitBreaker[*genai.Model](settings)}
}

// Execute runs fn with circuit breaker protection
func (b *GenerateBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Execute runs fn with circuit breaker protection
func (b *ModelBreaker) Execute(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns circuit breaker statistics for the stats endpoint
func (b *GenerateBreaker) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// Stats returns circuit breaker statistics for the stats endpoint
func (b *ModelBreaker) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed (or absent)
func (b *GenerateBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}

// IsHealthy reports whether the breaker is closed (or absent)
func (b *ModelBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
