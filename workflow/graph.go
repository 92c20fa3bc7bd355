package workflow

import (
	"context"
	"errors"
	"fmt"
)

// Reserved pseudo-node names. Start is only valid as an edge source and End
// only as an edge target.
const (
	// Start is the virtual entry node. AddEdge(Start, "first") is equivalent
	// to SetEntryPoint("first").
	Start = "__start__"

	// End is the virtual terminal node. Execution finishes when a transition
	// targets End.
	End = "__end__"
)

// NodeFunc is the processing function behind a graph node. It receives the
// current state, performs one step of work, and returns the updated state.
// Returning an error aborts the run unless the error is an interrupt
// (see [Interrupt]).
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// Router inspects the state after a node completes and returns a route label.
// The label is resolved to the next node through the route map passed to
// AddConditionalEdges.
type Router[S any] func(ctx context.Context, state S) string

// branch pairs a router with its label-to-node route map.
type branch[S any] struct {
	router Router[S]
	routes map[string]string
}

// StateGraph builds a workflow graph over a state type S using a fluent API.
// Nodes are named processing functions; edges declare fixed transitions;
// conditional edges route through a Router function. Unlike a DAG builder,
// cycles are legal — loops are bounded at run time by the step limit
// (see WithMaxSteps).
//
// Example:
//
//	g, err := workflow.NewStateGraph[GreetingState]().
//	    AddNode("create_greeting", createGreeting).
//	    AddNode("display_greeting", displayGreeting).
//	    SetEntryPoint("create_greeting").
//	    AddEdge("create_greeting", "display_greeting").
//	    AddEdge("display_greeting", workflow.End).
//	    Compile()
type StateGraph[S any] struct {
	// nodes stores all registered node functions keyed by name.
	nodes map[string]NodeFunc[S]

	// nodeOrder preserves insertion order for deterministic error reporting.
	nodeOrder []string

	// edges maps a source node to its fixed successor.
	edges map[string]string

	// branches maps a source node to its conditional routing table.
	branches map[string]*branch[S]

	// entryPoint is the first node executed by a run.
	entryPoint string

	// buildErrors accumulates violations from the fluent calls and is
	// reported by Compile.
	buildErrors []error
}

// NewStateGraph creates an empty StateGraph for the state type S.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:    make(map[string]NodeFunc[S]),
		edges:    make(map[string]string),
		branches: make(map[string]*branch[S]),
	}
}

// AddNode registers a named processing function. Names must be unique and
// must not collide with the Start/End sentinels.
func (graph *StateGraph[S]) AddNode(name string, fn NodeFunc[S]) *StateGraph[S] {
	if name == "" {
		graph.buildErrors = append(graph.buildErrors, errors.New("node name must not be empty"))
		return graph
	}

	if name == Start || name == End {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("node name %q is reserved", name))
		return graph
	}

	if fn == nil {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("node %q has a nil function", name))
		return graph
	}

	if _, exists := graph.nodes[name]; exists {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("duplicate node name %q", name))
		return graph
	}

	graph.nodes[name] = fn
	graph.nodeOrder = append(graph.nodeOrder, name)

	return graph
}

// AddEdge declares a fixed transition from one node to another. The target
// may be [End]. Using [Start] as the source sets the entry point.
func (graph *StateGraph[S]) AddEdge(from, to string) *StateGraph[S] {
	if from == Start {
		return graph.SetEntryPoint(to)
	}

	if to == Start {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("edge from %q targets the start sentinel", from))
		return graph
	}

	if _, exists := graph.edges[from]; exists {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("node %q already has an outgoing edge", from))
		return graph
	}

	if _, exists := graph.branches[from]; exists {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("node %q already has conditional edges", from))
		return graph
	}

	graph.edges[from] = to

	return graph
}

// AddConditionalEdges declares router-driven transitions out of a node.
// After the node completes, the router is called with the updated state and
// its label is resolved through routes to the next node (or [End]).
//
// Example:
//
//	graph.AddConditionalEdges("validate", shouldContinue, map[string]string{
//	    "continue": "process",
//	    "end":      workflow.End,
//	})
func (graph *StateGraph[S]) AddConditionalEdges(from string, router Router[S], routes map[string]string) *StateGraph[S] {
	if router == nil {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("conditional edges from %q have a nil router", from))
		return graph
	}

	if len(routes) == 0 {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("conditional edges from %q have an empty route map", from))
		return graph
	}

	if _, exists := graph.edges[from]; exists {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("node %q already has an outgoing edge", from))
		return graph
	}

	if _, exists := graph.branches[from]; exists {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("node %q already has conditional edges", from))
		return graph
	}

	copied := make(map[string]string, len(routes))
	for label, target := range routes {
		copied[label] = target
	}

	graph.branches[from] = &branch[S]{
		router: router,
		routes: copied,
	}

	return graph
}

// SetEntryPoint designates the node a run starts at.
func (graph *StateGraph[S]) SetEntryPoint(name string) *StateGraph[S] {
	if graph.entryPoint != "" && graph.entryPoint != name {
		graph.buildErrors = append(graph.buildErrors, fmt.Errorf("entry point already set to %q", graph.entryPoint))
		return graph
	}

	graph.entryPoint = name

	return graph
}

// Compile validates the graph and produces an executable CompiledGraph.
// Validation checks:
//
//  1. No accumulated build errors from the fluent calls
//  2. At least one node exists and the entry point is set and known
//  3. Every edge and route target references a known node or End
//  4. Every node has exactly one outgoing transition (edge or router)
//
// Cycles are intentionally not rejected; the per-run step limit bounds them.
func (graph *StateGraph[S]) Compile(opts ...Option) (*CompiledGraph[S], error) {
	if len(graph.buildErrors) > 0 {
		return nil, fmt.Errorf("graph build errors: %w", errors.Join(graph.buildErrors...))
	}

	if len(graph.nodes) == 0 {
		return nil, errors.New("graph must contain at least one node")
	}

	if graph.entryPoint == "" {
		return nil, errors.New("entry point not set; call SetEntryPoint or AddEdge(workflow.Start, ...)")
	}

	if _, exists := graph.nodes[graph.entryPoint]; !exists {
		return nil, fmt.Errorf("entry point %q is not a registered node", graph.entryPoint)
	}

	if err := graph.validateTransitions(); err != nil {
		return nil, err
	}

	config := newRunConfig()
	for _, opt := range opts {
		opt(config)
	}

	return &CompiledGraph[S]{
		nodes:      graph.nodes,
		edges:      graph.edges,
		branches:   graph.branches,
		entryPoint: graph.entryPoint,
		config:     config,
	}, nil
}

// validateTransitions checks edge endpoints, route targets, and transition
// completeness for every registered node.
func (graph *StateGraph[S]) validateTransitions() error {
	for from, to := range graph.edges {
		if _, exists := graph.nodes[from]; !exists {
			return fmt.Errorf("edge references unknown source node %q", from)
		}
		if err := graph.checkTarget(from, to); err != nil {
			return err
		}
	}

	for from, b := range graph.branches {
		if _, exists := graph.nodes[from]; !exists {
			return fmt.Errorf("conditional edges reference unknown source node %q", from)
		}
		for label, target := range b.routes {
			if err := graph.checkTarget(from, target); err != nil {
				return fmt.Errorf("route %q: %w", label, err)
			}
		}
	}

	// Every node needs a way out, otherwise a run would dead-end there.
	for _, name := range graph.nodeOrder {
		_, hasEdge := graph.edges[name]
		_, hasBranch := graph.branches[name]
		if !hasEdge && !hasBranch {
			return fmt.Errorf("node %q has no outgoing transition; add an edge to workflow.End", name)
		}
	}

	return nil
}

// checkTarget verifies a transition target is End or a registered node.
func (graph *StateGraph[S]) checkTarget(from, target string) error {
	if target == End {
		return nil
	}
	if _, exists := graph.nodes[target]; !exists {
		return fmt.Errorf("transition from %q targets unknown node %q", from, target)
	}
	return nil
}
