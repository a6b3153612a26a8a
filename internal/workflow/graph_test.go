package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Value    int
	Attempts int
}

func TestCompileValidation(t *testing.T) {
	noop := func(ctx context.Context, s counterState) (counterState, error) { return s, nil }

	tests := []struct {
		name        string
		build       func() *Graph[counterState]
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid linear graph",
			build: func() *Graph[counterState] {
				g := NewGraph[counterState]("test")
				g.AddNode("a", noop).AddNode("b", noop)
				g.SetEntryPoint("a")
				g.AddEdge("a", "b").AddEdge("b", End)
				return g
			},
			expectError: false,
		},
		{
			name: "missing entry point",
			build: func() *Graph[counterState] {
				g := NewGraph[counterState]("test")
				g.AddNode("a", noop)
				g.AddEdge("a", End)
				return g
			},
			expectError: true,
			errorMsg:    "no entry point",
		},
		{
			name: "entry point not registered",
			build: func() *Graph[counterState] {
				g := NewGraph[counterState]("test")
				g.AddNode("a", noop)
				g.SetEntryPoint("missing")
				g.AddEdge("a", End)
				return g
			},
			expectError: true,
			errorMsg:    "not a registered node",
		},
		{
			name: "edge to unknown node",
			build: func() *Graph[counterState] {
				g := NewGraph[counterState]("test")
				g.AddNode("a", noop)
				g.SetEntryPoint("a")
				g.AddEdge("a", "ghost")
				return g
			},
			expectError: true,
			errorMsg:    "unknown node",
		},
		{
			name: "node without outgoing edge",
			build: func() *Graph[counterState] {
				g := NewGraph[counterState]("test")
				g.AddNode("a", noop).AddNode("b", noop)
				g.SetEntryPoint("a")
				g.AddEdge("a", "b")
				return g
			},
			expectError: true,
			errorMsg:    "no outgoing edge",
		},
		{
			name: "conditional edge with undeclared targets",
			build: func() *Graph[counterState] {
				g := NewGraph[counterState]("test")
				g.AddNode("a", noop)
				g.SetEntryPoint("a")
				g.AddConditionalEdge("a", func(s counterState) string { return End })
				return g
			},
			expectError: true,
			errorMsg:    "declares no targets",
		},
		{
			name: "node with both edge kinds",
			build: func() *Graph[counterState] {
				g := NewGraph[counterState]("test")
				g.AddNode("a", noop)
				g.SetEntryPoint("a")
				g.AddEdge("a", End)
				g.AddConditionalEdge("a", func(s counterState) string { return End }, End)
				return g
			},
			expectError: true,
			errorMsg:    "both an edge and a conditional edge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Compile()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunLinear(t *testing.T) {
	g := NewGraph[counterState]("linear")
	g.AddNode("inc", func(ctx context.Context, s counterState) (counterState, error) {
		s.Value++
		return s, nil
	})
	g.AddNode("double", func(ctx context.Context, s counterState) (counterState, error) {
		s.Value *= 2
		return s, nil
	})
	g.SetEntryPoint("inc")
	g.AddEdge("inc", "double").AddEdge("double", End)

	runner, err := g.Compile()
	require.NoError(t, err)

	state, err := runner.Run(context.Background(), counterState{Value: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, state.Value)
}

func TestRunRetryLoop(t *testing.T) {
	// A generate/check loop where the check routes back to generate until
	// the attempt budget is exhausted, like a validation-gated pipeline.
	const maxAttempts = 3

	g := NewGraph[counterState]("retry")
	g.AddNode("generate", func(ctx context.Context, s counterState) (counterState, error) {
		s.Attempts++
		return s, nil
	})
	g.AddNode("check", func(ctx context.Context, s counterState) (counterState, error) {
		return s, nil
	})
	g.SetEntryPoint("generate")
	g.AddEdge("generate", "check")
	g.AddConditionalEdge("check", func(s counterState) string {
		if s.Attempts < maxAttempts {
			return "generate"
		}
		return End
	}, "generate", End)

	runner, err := g.Compile()
	require.NoError(t, err)

	state, err := runner.Run(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, maxAttempts, state.Attempts)
}

func TestRunNodeError(t *testing.T) {
	nodeErr := errors.New("boom")

	g := NewGraph[counterState]("failing")
	g.AddNode("ok", func(ctx context.Context, s counterState) (counterState, error) {
		s.Value = 42
		return s, nil
	})
	g.AddNode("fail", func(ctx context.Context, s counterState) (counterState, error) {
		return s, nodeErr
	})
	g.SetEntryPoint("ok")
	g.AddEdge("ok", "fail").AddEdge("fail", End)

	runner, err := g.Compile()
	require.NoError(t, err)

	state, err := runner.Run(context.Background(), counterState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, nodeErr)
	assert.Contains(t, err.Error(), "fail")
	// State from the last successful node is preserved
	assert.Equal(t, 42, state.Value)
}

func TestRunMaxStepsBackstop(t *testing.T) {
	g := NewGraph[counterState]("infinite")
	g.AddNode("spin", func(ctx context.Context, s counterState) (counterState, error) {
		s.Attempts++
		return s, nil
	})
	g.SetEntryPoint("spin")
	g.AddConditionalEdge("spin", func(s counterState) string { return "spin" }, "spin")

	runner, err := g.Compile()
	require.NoError(t, err)
	runner.MaxSteps = 10

	_, err = runner.Run(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 10 steps")
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g := NewGraph[counterState]("cancellable")
	g.AddNode("spin", func(ctx context.Context, s counterState) (counterState, error) {
		s.Attempts++
		if s.Attempts == 2 {
			cancel()
		}
		return s, nil
	})
	g.SetEntryPoint("spin")
	g.AddConditionalEdge("spin", func(s counterState) string { return "spin" }, "spin")

	runner, err := g.Compile()
	require.NoError(t, err)

	_, err = runner.Run(ctx, counterState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRouterReturningUnknownNode(t *testing.T) {
	g := NewGraph[counterState]("bad-router")
	g.AddNode("a", func(ctx context.Context, s counterState) (counterState, error) { return s, nil })
	g.SetEntryPoint("a")
	// Router declared with End but returns a name that was never registered.
	g.AddConditionalEdge("a", func(s counterState) string { return "nowhere" }, End)

	runner, err := g.Compile()
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node")
}
