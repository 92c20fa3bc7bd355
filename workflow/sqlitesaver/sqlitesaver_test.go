package sqlitesaver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/flowgraph/workflow"
)

func openTestSaver(t *testing.T) *Saver {
	t.Helper()

	saver, err := Open(filepath.Join(t.TempDir(), "checkpoints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { saver.Close() })
	return saver
}

func save(t *testing.T, saver *Saver, threadID, node string, step int) *workflow.Checkpoint {
	t.Helper()

	checkpoint := &workflow.Checkpoint{
		ID:       uuid.NewString(),
		ThreadID: threadID,
		Node:     node,
		Step:     step,
		State:    json.RawMessage(`{"count":` + jsonInt(step) + `}`),
	}
	require.NoError(t, saver.Save(context.Background(), checkpoint))
	return checkpoint
}

func TestLatestReturnsMostRecent(t *testing.T) {
	saver := openTestSaver(t)

	save(t, saver, "thread-1", "first", 0)
	expected := save(t, saver, "thread-1", "second", 1)
	save(t, saver, "thread-2", "other", 0)

	latest, err := saver.Latest(context.Background(), "thread-1")
	require.NoError(t, err)

	require.NotNil(t, latest)
	assert.Equal(t, expected.ID, latest.ID)
	assert.Equal(t, "second", latest.Node)
	assert.JSONEq(t, `{"count":1}`, string(latest.State))
}

func TestLatestUnknownThread(t *testing.T) {
	saver := openTestSaver(t)

	latest, err := saver.Latest(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestListPreservesSaveOrder(t *testing.T) {
	saver := openTestSaver(t)

	for step := range 5 {
		save(t, saver, "thread-1", "node", step)
	}

	checkpoints, err := saver.List(context.Background(), "thread-1")
	require.NoError(t, err)

	require.Len(t, checkpoints, 5)
	for step, checkpoint := range checkpoints {
		assert.Equal(t, step, checkpoint.Step)
	}
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoints.db")

	saver, err := Open(path)
	require.NoError(t, err)
	save(t, saver, "thread-1", "node", 0)
	require.NoError(t, saver.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	latest, err := reopened.Latest(context.Background(), "thread-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "node", latest.Node)
}

func jsonInt(value int) string {
	encoded, _ := json.Marshal(value)
	return string(encoded)
}
