package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// approvalGraph interrupts at the review node until a decision is supplied.
func approvalGraph(t *testing.T, saver Checkpointer) *CompiledGraph[CountState] {
	t.Helper()

	review := func(ctx context.Context, state CountState) (CountState, error) {
		decision, ok := ResumeValue[string](ctx)
		if !ok {
			return state, Interrupt("approve count " + string(rune('0'+state.Count)) + "?")
		}
		state.Trail = append(state.Trail, "decision:"+decision)
		return state, nil
	}

	compiled, err := NewStateGraph[CountState]().
		AddNode("prepare", func(_ context.Context, state CountState) (CountState, error) {
			state.Count = 7
			return state, nil
		}).
		AddNode("review", review).
		AddNode("finish", record("finish")).
		SetEntryPoint("prepare").
		AddEdge("prepare", "review").
		AddEdge("review", "finish").
		AddEdge("finish", End).
		Compile(WithCheckpointer(saver))
	require.NoError(t, err)
	return compiled
}

func TestInterruptAndResume(t *testing.T) {
	saver := NewMemorySaver()
	compiled := approvalGraph(t, saver)

	_, err := compiled.Invoke(context.Background(), CountState{})

	var interrupt *InterruptError
	require.ErrorAs(t, err, &interrupt)
	assert.Equal(t, "review", interrupt.Node)
	assert.NotEmpty(t, interrupt.ThreadID)
	assert.Contains(t, interrupt.Value, "approve count 7?")

	final, err := compiled.Resume(context.Background(), interrupt.ThreadID, "approved")
	require.NoError(t, err)

	assert.Equal(t, 7, final.Count)
	assert.Equal(t, []string{"decision:approved", "finish"}, final.Trail)
}

func TestResumeWithExplicitThreadID(t *testing.T) {
	saver := NewMemorySaver()
	compiled := approvalGraph(t, saver)

	_, err := compiled.Invoke(context.Background(), CountState{}, WithThreadID("thread-42"))

	var interrupt *InterruptError
	require.ErrorAs(t, err, &interrupt)
	assert.Equal(t, "thread-42", interrupt.ThreadID)

	final, err := compiled.Resume(context.Background(), "thread-42", "rejected")
	require.NoError(t, err)
	assert.Equal(t, []string{"decision:rejected", "finish"}, final.Trail)
}

func TestResumeWithoutCheckpointer(t *testing.T) {
	compiled, err := NewStateGraph[CountState]().
		AddNode("only", record("only")).
		SetEntryPoint("only").
		AddEdge("only", End).
		Compile()
	require.NoError(t, err)

	_, err = compiled.Resume(context.Background(), "thread", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a checkpointer")
}

func TestResumeUnknownThread(t *testing.T) {
	compiled := approvalGraph(t, NewMemorySaver())

	_, err := compiled.Resume(context.Background(), "never-ran", "value")
	require.ErrorIs(t, err, ErrNoCheckpoint)
}

func TestResumeCompletedRun(t *testing.T) {
	saver := NewMemorySaver()
	compiled := approvalGraph(t, saver)

	_, err := compiled.Invoke(context.Background(), CountState{}, WithThreadID("thread-done"))

	var interrupt *InterruptError
	require.ErrorAs(t, err, &interrupt)

	_, err = compiled.Resume(context.Background(), "thread-done", "approved")
	require.NoError(t, err)

	// The thread's latest checkpoint now points at End; resuming again must
	// report completion instead of re-entering the graph.
	_, err = compiled.Resume(context.Background(), "thread-done", "approved")
	require.ErrorIs(t, err, ErrRunComplete)
}

func TestResumeValueIsSingleUse(t *testing.T) {
	saver := NewMemorySaver()

	ask := func(ctx context.Context, state CountState) (CountState, error) {
		answer, ok := ResumeValue[string](ctx)
		if !ok {
			return state, Interrupt("need input")
		}
		state.Trail = append(state.Trail, answer)
		return state, nil
	}

	// Loops back to ask until two answers are collected; the second pass
	// must interrupt again instead of replaying the first answer.
	compiled, err := NewStateGraph[CountState]().
		AddNode("ask", ask).
		SetEntryPoint("ask").
		AddConditionalEdges("ask", func(_ context.Context, state CountState) string {
			if len(state.Trail) < 2 {
				return "again"
			}
			return "done"
		}, map[string]string{
			"again": "ask",
			"done":  End,
		}).
		Compile(WithCheckpointer(saver))
	require.NoError(t, err)

	_, err = compiled.Invoke(context.Background(), CountState{}, WithThreadID("thread"))
	var interrupt *InterruptError
	require.ErrorAs(t, err, &interrupt)

	_, err = compiled.Resume(context.Background(), "thread", "first")
	require.ErrorAs(t, err, &interrupt)

	final, err := compiled.Resume(context.Background(), "thread", "second")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, final.Trail)
}

func TestCheckpointsSavedPerStep(t *testing.T) {
	saver := NewMemorySaver()

	compiled, err := NewStateGraph[CountState]().
		AddNode("first", record("first")).
		AddNode("second", record("second")).
		SetEntryPoint("first").
		AddEdge("first", "second").
		AddEdge("second", End).
		Compile(WithCheckpointer(saver))
	require.NoError(t, err)

	_, err = compiled.Invoke(context.Background(), CountState{}, WithThreadID("thread-1"))
	require.NoError(t, err)

	checkpoints, err := saver.List(context.Background(), "thread-1")
	require.NoError(t, err)

	require.Len(t, checkpoints, 2)
	assert.Equal(t, "second", checkpoints[0].Node)
	assert.Equal(t, End, checkpoints[1].Node)
}

func TestMemorySaverCopiesState(t *testing.T) {
	saver := NewMemorySaver()

	original := &Checkpoint{ID: "cp-1", ThreadID: "thread", Node: "node", State: []byte(`{"count":1}`)}
	require.NoError(t, saver.Save(context.Background(), original))

	original.State[9] = '9'

	latest, err := saver.Latest(context.Background(), "thread")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1}`, string(latest.State))
}
