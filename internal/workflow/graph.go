// Package workflow implements a small directed-graph execution engine for
// multi-stage pipelines. Nodes transform a state value; conditional edges
// pick the next node from the state after each step, which lets pipelines
// express retry loops and quality gates.
package workflow

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"careerpilot/internal/errors"
)

// End is the terminal pseudo-node name. Routing to End stops the run.
const End = "__end__"

// NodeFunc transforms the state. It receives the state after the previous
// node and returns the state passed to the next one.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// RouteFunc inspects the state and returns the name of the next node
type RouteFunc[S any] func(state S) string

// Graph is a buildable workflow definition. Construct with NewGraph, add
// nodes and edges, then Compile into a Runner.
type Graph[S any] struct {
	name       string
	entryPoint string
	nodes      map[string]NodeFunc[S]
	edges      map[string]string
	routers    map[string]RouteFunc[S]
	routes     map[string][]string
}

// NewGraph creates an empty graph. The name tags spans and errors.
func NewGraph[S any](name string) *Graph[S] {
	return &Graph[S]{
		name:    name,
		nodes:   make(map[string]NodeFunc[S]),
		edges:   make(map[string]string),
		routers: make(map[string]RouteFunc[S]),
		routes:  make(map[string][]string),
	}
}

// AddNode registers a named node
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	g.nodes[name] = fn
	return g
}

// SetEntryPoint sets the node the run starts at
func (g *Graph[S]) SetEntryPoint(name string) *Graph[S] {
	g.entryPoint = name
	return g
}

// AddEdge adds an unconditional edge: after from, run to
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.edges[from] = to
	return g
}

// AddConditionalEdge adds a routed edge: after from, route picks the next
// node. targets declares every node the router may return, so Compile can
// verify them.
func (g *Graph[S]) AddConditionalEdge(from string, route RouteFunc[S], targets ...string) *Graph[S] {
	g.routers[from] = route
	g.routes[from] = targets
	return g
}

// Compile validates the graph and returns a Runner. Every edge must point
// at a registered node or End, every node must have an outgoing edge, and
// the entry point must be set.
func (g *Graph[S]) Compile() (*Runner[S], error) {
	if g.entryPoint == "" {
		return nil, errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
			fmt.Sprintf("graph %s has no entry point", g.name), nil)
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
			fmt.Sprintf("graph %s entry point %q is not a registered node", g.name, g.entryPoint), nil)
	}

	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
				fmt.Sprintf("graph %s has an edge from unknown node %q", g.name, from), nil)
		}
		if err := g.checkTarget(from, to); err != nil {
			return nil, err
		}
	}

	for from, targets := range g.routes {
		if _, ok := g.nodes[from]; !ok {
			return nil, errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
				fmt.Sprintf("graph %s has a conditional edge from unknown node %q", g.name, from), nil)
		}
		if len(targets) == 0 {
			return nil, errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
				fmt.Sprintf("graph %s conditional edge from %q declares no targets", g.name, from), nil)
		}
		for _, to := range targets {
			if err := g.checkTarget(from, to); err != nil {
				return nil, err
			}
		}
	}

	for name := range g.nodes {
		_, hasEdge := g.edges[name]
		_, hasRouter := g.routers[name]
		if hasEdge && hasRouter {
			return nil, errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
				fmt.Sprintf("graph %s node %q has both an edge and a conditional edge", g.name, name), nil)
		}
		if !hasEdge && !hasRouter {
			return nil, errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
				fmt.Sprintf("graph %s node %q has no outgoing edge", g.name, name), nil)
		}
	}

	return &Runner[S]{graph: g}, nil
}

func (g *Graph[S]) checkTarget(from, to string) error {
	if to == End {
		return nil
	}
	if _, ok := g.nodes[to]; !ok {
		return errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
			fmt.Sprintf("graph %s edge from %q points at unknown node %q", g.name, from, to), nil)
	}
	return nil
}

// Runner executes a compiled graph
type Runner[S any] struct {
	graph *Graph[S]

	// MaxSteps bounds the total node executions of one run as a backstop
	// against routing cycles. Zero means the default of 100.
	MaxSteps int
}

// Run executes the graph from its entry point until a route reaches End.
// Each node runs in its own span. A node error aborts the run and is
// returned wrapped with the node name; the state from the last successful
// node is returned alongside it.
func (r *Runner[S]) Run(ctx context.Context, state S) (S, error) {
	maxSteps := r.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 100
	}

	tracer := otel.Tracer("careerpilot.workflow")
	ctx, span := tracer.Start(ctx, "workflow."+r.graph.name)
	defer span.End()

	current := r.graph.entryPoint
	for step := 0; ; step++ {
		if step >= maxSteps {
			err := errors.NewWorkflowError(errors.ErrCodeNodeFailed,
				fmt.Sprintf("workflow %s exceeded %d steps at node %q", r.graph.name, maxSteps, current), nil)
			span.RecordError(err)
			return state, err
		}

		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return state, err
		}

		next, err := r.runNode(ctx, current, &state)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("workflow.failed_node", current))
			return state, err
		}

		if next == End {
			span.SetAttributes(attribute.Int("workflow.steps", step+1))
			return state, nil
		}
		current = next
	}
}

// runNode executes one node and resolves the next node name
func (r *Runner[S]) runNode(ctx context.Context, name string, state *S) (string, error) {
	tracer := otel.Tracer("careerpilot.workflow")
	nodeCtx, span := tracer.Start(ctx, "node."+name)
	defer span.End()
	span.SetAttributes(attribute.String("workflow.name", r.graph.name))

	newState, err := r.graph.nodes[name](nodeCtx, *state)
	if err != nil {
		span.RecordError(err)
		return "", errors.NewWorkflowError(errors.ErrCodeNodeFailed,
			fmt.Sprintf("node %q failed", name), err).WithContext("workflow", r.graph.name)
	}
	*state = newState

	if route, ok := r.graph.routers[name]; ok {
		next := route(*state)
		span.SetAttributes(attribute.String("workflow.route", next))
		if next != End {
			if _, known := r.graph.nodes[next]; !known {
				return "", errors.NewWorkflowError(errors.ErrCodeGraphInvalid,
					fmt.Sprintf("router at %q returned unknown node %q", name, next), nil)
			}
		}
		return next, nil
	}

	return r.graph.edges[name], nil
}
