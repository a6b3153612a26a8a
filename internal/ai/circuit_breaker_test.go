package ai

import (
	"errors"
	"testing"
	"time"

	"careerpilot/internal/config"
	careerpilotErrors "careerpilot/internal/errors"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func breakerTestConfig(enabled bool) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}
}

func breakerTestLogger(t *testing.T) *careerpilotErrors.Logger {
	t.Helper()
	logger, err := careerpilotErrors.New("error")
	require.NoError(t, err)
	return logger
}

func TestDisabledBreakerIsNil(t *testing.T) {
	logger := breakerTestLogger(t)

	assert.Nil(t, NewGenerateBreaker("codegen", breakerTestConfig(false), logger))
	assert.Nil(t, NewModelBreaker("codegen", breakerTestConfig(false), logger))
}

func TestNilBreakerExecutesDirectly(t *testing.T) {
	var b *GenerateBreaker

	want := &genai.GenerateContentResponse{}
	got, err := b.Execute(func() (*genai.GenerateContentResponse, error) {
		return want, nil
	})

	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.True(t, b.IsHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, b.Stats())
}

func TestBreakerTripsAfterFailures(t *testing.T) {
	b := NewGenerateBreaker("codegen", breakerTestConfig(true), breakerTestLogger(t))
	require.NotNil(t, b)
	assert.True(t, b.IsHealthy())

	boom := errors.New("upstream unavailable")
	for range 3 {
		_, err := b.Execute(func() (*genai.GenerateContentResponse, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)
	}

	// MinRequests reached with a 100% failure ratio: the breaker is open and
	// calls are rejected without invoking fn
	called := false
	_, err := b.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return &genai.GenerateContentResponse{}, nil
	})

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
	assert.False(t, b.IsHealthy())

	stats := b.Stats()
	assert.Equal(t, "ai-codegen", stats["name"])
	assert.Equal(t, gobreaker.StateOpen.String(), stats["state"])
}

func TestBreakerStaysClosedBelowThreshold(t *testing.T) {
	b := NewGenerateBreaker("review", breakerTestConfig(true), breakerTestLogger(t))

	// One failure among successes keeps the failure ratio under 0.6
	_, err := b.Execute(func() (*genai.GenerateContentResponse, error) {
		return nil, errors.New("transient")
	})
	require.Error(t, err)

	for range 3 {
		_, err := b.Execute(func() (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		})
		require.NoError(t, err)
	}

	assert.True(t, b.IsHealthy())
}

func TestModelBreakerLenientThreshold(t *testing.T) {
	b := NewModelBreaker("parse", breakerTestConfig(true), breakerTestLogger(t))
	require.NotNil(t, b)

	boom := errors.New("lookup failed")

	// The model breaker requires 5 requests at an 80% failure ratio; 3
	// failures are not enough to trip it
	for range 3 {
		_, err := b.Execute(func() (*genai.Model, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}
	assert.True(t, b.IsHealthy())

	for range 2 {
		_, err := b.Execute(func() (*genai.Model, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}
	assert.False(t, b.IsHealthy())

	stats := b.Stats()
	assert.Equal(t, "ai-model-parse", stats["name"])
}
