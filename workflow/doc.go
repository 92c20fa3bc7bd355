// Package workflow implements a state-graph engine for orchestrating
// multi-step agent workflows. A graph is a set of named nodes (functions
// over a shared state type) connected by fixed edges and router-driven
// conditional edges. Unlike a DAG pipeline, cycles are first-class: loops
// are the natural shape of agent ↔ tool and retry patterns, bounded at run
// time by a configurable step limit.
//
// The main entry points are [NewStateGraph] to declare a graph,
// [StateGraph.Compile] to validate it, and [CompiledGraph.Invoke] /
// [CompiledGraph.Stream] to run it. State is a user-defined type threaded
// through every node; each node returns the updated state.
//
// Key features:
//   - Conditional routing via Router functions and labeled route maps
//   - Cyclic graphs with a per-run step limit (WithMaxSteps)
//   - Streaming execution with per-step events (Stream)
//   - Human-in-the-loop interrupts with checkpointed resume
//     ([Interrupt], [CompiledGraph.Resume], [ResumeValue])
//   - Pluggable checkpoint persistence ([Checkpointer], [NewMemorySaver],
//     and the sqlitesaver subpackage)
//   - Bounded fan-out/fan-in helpers ([RunParallel])
//   - OpenTelemetry spans per run and per node, slog step logging
//
// Example:
//
//	type CountState struct {
//	    Counter int `json:"counter"`
//	}
//
//	g, err := workflow.NewStateGraph[CountState]().
//	    AddNode("increment", func(ctx context.Context, s CountState) (CountState, error) {
//	        s.Counter++
//	        return s, nil
//	    }).
//	    SetEntryPoint("increment").
//	    AddConditionalEdges("increment", func(ctx context.Context, s CountState) string {
//	        if s.Counter < 5 {
//	            return "loop"
//	        }
//	        return "done"
//	    }, map[string]string{
//	        "loop": "increment",
//	        "done": workflow.End,
//	    }).
//	    Compile()
//
//	final, err := g.Invoke(ctx, CountState{})
package workflow
