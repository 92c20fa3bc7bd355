package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamYieldsEventsPerStep(t *testing.T) {
	compiled, err := NewStateGraph[CountState]().
		AddNode("first", record("first")).
		AddNode("second", record("second")).
		SetEntryPoint("first").
		AddEdge("first", "second").
		AddEdge("second", End).
		Compile()
	require.NoError(t, err)

	var events []Event[CountState]
	for event, err := range compiled.Stream(context.Background(), CountState{}) {
		require.NoError(t, err)
		events = append(events, event)
	}

	require.Len(t, events, 5)
	assert.Equal(t, EventNodeStart, events[0].Type)
	assert.Equal(t, "first", events[0].Node)
	assert.Equal(t, EventNodeComplete, events[1].Type)
	assert.Equal(t, []string{"first"}, events[1].State.Trail)
	assert.Equal(t, EventNodeStart, events[2].Type)
	assert.Equal(t, EventNodeComplete, events[3].Type)

	done := events[4]
	assert.Equal(t, EventDone, done.Type)
	assert.Equal(t, []string{"first", "second"}, done.State.Trail)
	assert.GreaterOrEqual(t, done.Duration, time.Duration(0))
}

func TestStreamReportsNodeError(t *testing.T) {
	boom := errors.New("stream failure")

	compiled, err := NewStateGraph[CountState]().
		AddNode("fail", func(_ context.Context, state CountState) (CountState, error) {
			return state, boom
		}).
		SetEntryPoint("fail").
		AddEdge("fail", End).
		Compile()
	require.NoError(t, err)

	var streamErr error
	for _, err := range compiled.Stream(context.Background(), CountState{}) {
		if err != nil {
			streamErr = err
		}
	}

	require.ErrorIs(t, streamErr, boom)
}

func TestStreamEarlyBreakStopsRun(t *testing.T) {
	executed := 0

	compiled, err := NewStateGraph[CountState]().
		AddNode("count", func(_ context.Context, state CountState) (CountState, error) {
			executed++
			return state, nil
		}).
		SetEntryPoint("count").
		AddEdge("count", "count").
		Compile()
	require.NoError(t, err)

	for event, err := range compiled.Stream(context.Background(), CountState{}) {
		require.NoError(t, err)
		if event.Type == EventNodeComplete && event.Step == 1 {
			break
		}
	}

	assert.Equal(t, 2, executed)
}
