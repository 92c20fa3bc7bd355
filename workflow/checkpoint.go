package workflow

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Checkpoint is a persisted snapshot of a run between two steps. Node names
// the node the run executes next when resumed from this checkpoint.
type Checkpoint struct {
	// ID uniquely identifies the checkpoint.
	ID string `json:"id"`

	// ThreadID groups the checkpoints of one logical conversation or job.
	ThreadID string `json:"thread_id"`

	// Node is the next node to execute on resume. End for finished runs.
	Node string `json:"node"`

	// Step is the zero-based step the checkpoint was taken after.
	Step int `json:"step"`

	// State is the JSON-encoded graph state at checkpoint time.
	State json.RawMessage `json:"state"`

	// CreatedAt is the UTC time the checkpoint was saved.
	CreatedAt time.Time `json:"created_at"`
}

// Checkpointer persists run state so graphs can survive interrupts and
// process restarts. Implementations must be safe for concurrent use.
//
// The in-memory MemorySaver suits single-process demos; the sqlitesaver
// subpackage provides durable storage.
type Checkpointer interface {
	// Save stores a checkpoint.
	Save(ctx context.Context, checkpoint *Checkpoint) error

	// Latest returns the most recent checkpoint for a thread, or nil when
	// none exists.
	Latest(ctx context.Context, threadID string) (*Checkpoint, error)

	// List returns all checkpoints for a thread in save order.
	List(ctx context.Context, threadID string) ([]*Checkpoint, error)
}

// MemorySaver is the default in-memory Checkpointer. State is lost when the
// process exits.
type MemorySaver struct {
	mu      sync.RWMutex
	threads map[string][]*Checkpoint
}

// Compile-time check that MemorySaver implements Checkpointer.
var _ Checkpointer = (*MemorySaver)(nil)

// NewMemorySaver creates an empty in-memory checkpoint store.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{
		threads: make(map[string][]*Checkpoint),
	}
}

// Save appends a copy of the checkpoint to its thread.
func (saver *MemorySaver) Save(_ context.Context, checkpoint *Checkpoint) error {
	copied := *checkpoint
	copied.State = append(json.RawMessage(nil), checkpoint.State...)

	saver.mu.Lock()
	defer saver.mu.Unlock()

	saver.threads[checkpoint.ThreadID] = append(saver.threads[checkpoint.ThreadID], &copied)
	return nil
}

// Latest returns the most recently saved checkpoint for a thread, or nil.
func (saver *MemorySaver) Latest(_ context.Context, threadID string) (*Checkpoint, error) {
	saver.mu.RLock()
	defer saver.mu.RUnlock()

	checkpoints := saver.threads[threadID]
	if len(checkpoints) == 0 {
		return nil, nil
	}

	copied := *checkpoints[len(checkpoints)-1]
	return &copied, nil
}

// List returns all checkpoints for a thread in save order.
func (saver *MemorySaver) List(_ context.Context, threadID string) ([]*Checkpoint, error) {
	saver.mu.RLock()
	defer saver.mu.RUnlock()

	checkpoints := saver.threads[threadID]
	out := make([]*Checkpoint, len(checkpoints))
	for index, checkpoint := range checkpoints {
		copied := *checkpoint
		out[index] = &copied
	}
	return out, nil
}
