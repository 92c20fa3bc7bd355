package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors returned by graph runs.
var (
	// ErrMaxSteps signals that a run exceeded its step limit, usually
	// because a cycle never routed to End.
	ErrMaxSteps = errors.New("workflow: maximum step count exceeded")

	// ErrUnknownRoute signals that a router returned a label that is not
	// present in its route map.
	ErrUnknownRoute = errors.New("workflow: router returned unknown route")

	// ErrNoCheckpoint signals that Resume found no saved checkpoint for
	// the given thread ID.
	ErrNoCheckpoint = errors.New("workflow: no checkpoint for thread")

	// ErrRunComplete signals that Resume was called on a thread whose run
	// already reached End and has nothing left to execute.
	ErrRunComplete = errors.New("workflow: run already complete for thread")
)

// InterruptError pauses a run so a human can act. Nodes raise it via
// [Interrupt]; Invoke saves a checkpoint (when a checkpointer is configured)
// and returns the error to the caller, who presents Value to the user and
// later calls Resume with the answer.
type InterruptError struct {
	// Value is the payload shown to the human, typically a question or the
	// content awaiting approval.
	Value any

	// Node is the name of the node that interrupted.
	Node string

	// ThreadID identifies the checkpoint thread to resume from.
	ThreadID string
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("workflow: interrupted at node %q awaiting human input", e.Node)
}

// Interrupt returns the error a node raises to pause the run for human
// input. The node is re-executed on Resume with the human's answer available
// through [ResumeValue].
//
// Example:
//
//	func humanApproval(ctx context.Context, state ReviewState) (ReviewState, error) {
//	    decision, ok := workflow.ResumeValue[string](ctx)
//	    if !ok {
//	        return state, workflow.Interrupt("Approve this content? (approve/reject)")
//	    }
//	    state.Decision = decision
//	    return state, nil
//	}
func Interrupt(value any) error {
	return &InterruptError{Value: value}
}

// resumeValueKey carries the human's answer into a resumed node execution.
type resumeValueKey struct{}

// resumeHolder makes the answer single-use: a resumed run that loops back to
// the interrupting node must interrupt again rather than replay the stale
// answer.
type resumeHolder struct {
	value    any
	consumed bool
}

func withResumeValue(ctx context.Context, value any) context.Context {
	return context.WithValue(ctx, resumeValueKey{}, &resumeHolder{value: value})
}

// ResumeValue retrieves the answer supplied to Resume, typed as T. The
// answer is consumed on first retrieval; later calls within the same run
// report false, as do calls outside a resumption and calls with the wrong
// type.
func ResumeValue[T any](ctx context.Context) (T, bool) {
	var zero T

	holder, ok := ctx.Value(resumeValueKey{}).(*resumeHolder)
	if !ok || holder.consumed {
		return zero, false
	}

	value, ok := holder.value.(T)
	if !ok {
		return zero, false
	}

	holder.consumed = true
	return value, true
}

// CompiledGraph is a validated, executable workflow graph over state type S.
// It is produced by StateGraph.Compile and is safe for concurrent runs:
// all per-run data lives on the stack of Invoke/Stream.
type CompiledGraph[S any] struct {
	nodes      map[string]NodeFunc[S]
	edges      map[string]string
	branches   map[string]*branch[S]
	entryPoint string
	config     *runConfig
}

// Invoke runs the graph to completion, threading state from node to node
// starting at the entry point. It returns the final state after a transition
// reaches End.
//
// When a node interrupts, Invoke returns the zero state and an
// *InterruptError; pass the error's ThreadID to Resume to continue.
func (graph *CompiledGraph[S]) Invoke(ctx context.Context, initial S, opts ...RunOption) (S, error) {
	options := graph.applyRunOptions(opts)
	return graph.run(ctx, initial, graph.entryPoint, options, nil)
}

// Resume continues an interrupted run. It loads the latest checkpoint for
// threadID, re-executes the interrupted node with value available via
// [ResumeValue], and runs the graph to completion from there.
func (graph *CompiledGraph[S]) Resume(ctx context.Context, threadID string, value any, opts ...RunOption) (S, error) {
	var zero S

	if graph.config.checkpointer == nil {
		return zero, errors.New("workflow: resume requires a checkpointer (see WithCheckpointer)")
	}

	checkpoint, err := graph.config.checkpointer.Latest(ctx, threadID)
	if err != nil {
		return zero, fmt.Errorf("workflow: load checkpoint: %w", err)
	}

	if checkpoint == nil {
		return zero, fmt.Errorf("%w: %s", ErrNoCheckpoint, threadID)
	}

	// The final checkpoint of a finished run points at End; there is no node
	// left to re-enter.
	if checkpoint.Node == End {
		return zero, fmt.Errorf("%w: %s", ErrRunComplete, threadID)
	}

	var state S
	if err := json.Unmarshal(checkpoint.State, &state); err != nil {
		return zero, fmt.Errorf("workflow: decode checkpoint state: %w", err)
	}

	options := graph.applyRunOptions(opts)
	options.threadID = threadID

	return graph.run(withResumeValue(ctx, value), state, checkpoint.Node, options, nil)
}

// applyRunOptions resolves per-run options, generating a thread ID when
// checkpointing is on and the caller did not supply one.
func (graph *CompiledGraph[S]) applyRunOptions(opts []RunOption) *runOptions {
	options := &runOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.threadID == "" && graph.config.checkpointer != nil {
		options.threadID = uuid.NewString()
	}

	return options
}

// run is the shared execution loop behind Invoke, Resume, and Stream.
// emit, when non-nil, receives step events; returning false from emit stops
// the run early (the consumer broke out of the stream).
func (graph *CompiledGraph[S]) run(ctx context.Context, state S, startNode string, options *runOptions, emit func(Event[S]) bool) (S, error) {
	var zero S

	if graph.config.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, graph.config.executionTimeout)
		defer cancel()
	}

	ctx, runSpan := graph.startRunSpan(ctx, startNode)
	defer runSpan.End()

	runStart := time.Now()
	current := startNode

	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return zero, graph.failRun(runSpan, fmt.Errorf("workflow: run canceled before node %q: %w", current, err))
		}

		if step >= graph.config.maxSteps {
			return zero, graph.failRun(runSpan, fmt.Errorf("%w: limit %d reached at node %q", ErrMaxSteps, graph.config.maxSteps, current))
		}

		fn := graph.nodes[current]

		if emit != nil && !emit(Event[S]{Type: EventNodeStart, Step: step, Node: current}) {
			return zero, nil
		}

		graph.config.logger.DebugContext(ctx, "executing node", "node", current, "step", step)

		nodeCtx, nodeSpan := graph.startNodeSpan(ctx, current, step)
		nodeStart := time.Now()
		updated, err := fn(nodeCtx, state)
		nodeDuration := time.Since(nodeStart)

		if err != nil {
			var interrupt *InterruptError
			if errors.As(err, &interrupt) {
				interrupt.Node = current
				interrupt.ThreadID = options.threadID
				nodeSpan.End()

				if saveErr := graph.saveCheckpoint(ctx, options.threadID, current, step, state); saveErr != nil {
					return zero, graph.failRun(runSpan, fmt.Errorf("workflow: checkpoint on interrupt: %w", saveErr))
				}

				graph.config.logger.InfoContext(ctx, "run interrupted", "node", current, "thread_id", options.threadID)
				return zero, interrupt
			}

			graph.endNodeSpan(nodeSpan, err)
			return zero, graph.failRun(runSpan, fmt.Errorf("workflow: node %q failed: %w", current, err))
		}

		graph.endNodeSpan(nodeSpan, nil)
		graph.config.logger.DebugContext(ctx, "node complete", "node", current, "step", step, "duration", nodeDuration)

		state = updated

		next, err := graph.nextNode(ctx, current, state)
		if err != nil {
			return zero, graph.failRun(runSpan, err)
		}

		if saveErr := graph.saveCheckpoint(ctx, options.threadID, next, step, state); saveErr != nil {
			return zero, graph.failRun(runSpan, fmt.Errorf("workflow: checkpoint after node %q: %w", current, saveErr))
		}

		if emit != nil && !emit(Event[S]{Type: EventNodeComplete, Step: step, Node: current, State: state, Duration: nodeDuration}) {
			return zero, nil
		}

		if next == End {
			if emit != nil {
				emit(Event[S]{Type: EventDone, Step: step, State: state, Duration: time.Since(runStart)})
			}
			graph.config.logger.InfoContext(ctx, "run complete", "steps", step+1, "duration", time.Since(runStart))
			return state, nil
		}

		current = next
	}
}

// nextNode resolves the transition out of a node: a fixed edge when one is
// declared, otherwise the node's router.
func (graph *CompiledGraph[S]) nextNode(ctx context.Context, current string, state S) (string, error) {
	if to, exists := graph.edges[current]; exists {
		return to, nil
	}

	b := graph.branches[current]
	label := b.router(ctx, state)

	target, exists := b.routes[label]
	if !exists {
		return "", fmt.Errorf("%w: node %q returned %q", ErrUnknownRoute, current, label)
	}

	return target, nil
}

// saveCheckpoint persists the state after a step. next is the node the run
// will execute when resumed from this checkpoint. No-op without a
// checkpointer or thread ID.
func (graph *CompiledGraph[S]) saveCheckpoint(ctx context.Context, threadID, next string, step int, state S) error {
	if graph.config.checkpointer == nil || threadID == "" {
		return nil
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return graph.config.checkpointer.Save(ctx, &Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Node:      next,
		Step:      step,
		State:     encoded,
		CreatedAt: time.Now().UTC(),
	})
}
