package workflow

import (
	"context"
	"iter"
	"time"
)

// EventType identifies what happened during a streamed run.
type EventType string

const (
	// EventNodeStart signals that a node is about to execute.
	EventNodeStart EventType = "node_start"

	// EventNodeComplete signals that a node finished; State carries the
	// updated state snapshot.
	EventNodeComplete EventType = "node_complete"

	// EventDone signals that the run reached End; State carries the final
	// state and Duration the total run time.
	EventDone EventType = "done"
)

// Event is a single step event from a streamed run of a graph over state S.
type Event[S any] struct {
	// Type identifies the kind of event.
	Type EventType

	// Step is the zero-based execution step that produced the event.
	Step int

	// Node names the node the event refers to. Empty for EventDone.
	Node string

	// State is the state snapshot after the step. Populated for
	// EventNodeComplete and EventDone.
	State S

	// Duration is the node execution time for EventNodeComplete, or the
	// total run time for EventDone.
	Duration time.Duration
}

// Stream runs the graph like Invoke but yields an event per step, giving the
// caller real-time visibility into execution. The iterator yields a non-nil
// error and stops if a node fails or interrupts. Breaking out of the range
// loop early cancels the remainder of the run.
//
// Example:
//
//	for event, err := range compiled.Stream(ctx, initial) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if event.Type == workflow.EventNodeComplete {
//	        fmt.Printf("step %d: %s done\n", event.Step, event.Node)
//	    }
//	}
func (graph *CompiledGraph[S]) Stream(ctx context.Context, initial S, opts ...RunOption) iter.Seq2[Event[S], error] {
	options := graph.applyRunOptions(opts)

	return func(yield func(Event[S], error) bool) {
		_, err := graph.run(ctx, initial, graph.entryPoint, options, func(event Event[S]) bool {
			return yield(event, nil)
		})
		if err != nil {
			yield(Event[S]{}, err)
		}
	}
}
