// Package sqlitesaver persists workflow checkpoints in a SQLite database,
// letting interrupted runs resume across process restarts.
package sqlitesaver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/leofalp/flowgraph/workflow"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	id         TEXT PRIMARY KEY,
	thread_id  TEXT NOT NULL,
	node       TEXT NOT NULL,
	step       INTEGER NOT NULL,
	state      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	seq        INTEGER
);
CREATE INDEX IF NOT EXISTS idx_checkpoints_thread ON checkpoints (thread_id, seq);
`

// Saver is a [workflow.Checkpointer] backed by SQLite via the cgo-free
// modernc.org/sqlite driver. A monotonically increasing sequence column
// preserves save order independently of clock resolution.
type Saver struct {
	db *sql.DB
}

// Compile-time check that Saver implements workflow.Checkpointer.
var _ workflow.Checkpointer = (*Saver)(nil)

// Open creates or opens the database at path and ensures the schema exists.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Saver, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitesaver: open %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitesaver: create schema: %w", err)
	}

	return &Saver{db: db}, nil
}

// Close releases the underlying database handle.
func (saver *Saver) Close() error {
	return saver.db.Close()
}

// Save stores a checkpoint at the next sequence position of its thread.
func (saver *Saver) Save(ctx context.Context, checkpoint *workflow.Checkpoint) error {
	createdAt := checkpoint.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := saver.db.ExecContext(ctx,
		`INSERT INTO checkpoints (id, thread_id, node, step, state, created_at, seq)
		 VALUES (?, ?, ?, ?, ?, ?,
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM checkpoints WHERE thread_id = ?))`,
		checkpoint.ID, checkpoint.ThreadID, checkpoint.Node, checkpoint.Step,
		string(checkpoint.State), createdAt, checkpoint.ThreadID,
	)
	if err != nil {
		return fmt.Errorf("sqlitesaver: save checkpoint %s: %w", checkpoint.ID, err)
	}
	return nil
}

// Latest returns the most recently saved checkpoint for a thread, or nil
// when none exists.
func (saver *Saver) Latest(ctx context.Context, threadID string) (*workflow.Checkpoint, error) {
	row := saver.db.QueryRowContext(ctx,
		`SELECT id, thread_id, node, step, state, created_at
		 FROM checkpoints WHERE thread_id = ? ORDER BY seq DESC LIMIT 1`,
		threadID,
	)

	checkpoint, err := scanCheckpoint(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitesaver: load latest for thread %s: %w", threadID, err)
	}
	return checkpoint, nil
}

// List returns all checkpoints for a thread in save order.
func (saver *Saver) List(ctx context.Context, threadID string) ([]*workflow.Checkpoint, error) {
	rows, err := saver.db.QueryContext(ctx,
		`SELECT id, thread_id, node, step, state, created_at
		 FROM checkpoints WHERE thread_id = ? ORDER BY seq`,
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitesaver: list thread %s: %w", threadID, err)
	}
	defer rows.Close()

	var checkpoints []*workflow.Checkpoint
	for rows.Next() {
		checkpoint, err := scanCheckpoint(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlitesaver: scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, checkpoint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitesaver: iterate checkpoints: %w", err)
	}
	return checkpoints, nil
}

// scanCheckpoint reads one row via the given Scan function.
func scanCheckpoint(scan func(...any) error) (*workflow.Checkpoint, error) {
	var (
		checkpoint workflow.Checkpoint
		state      string
	)
	if err := scan(&checkpoint.ID, &checkpoint.ThreadID, &checkpoint.Node,
		&checkpoint.Step, &state, &checkpoint.CreatedAt); err != nil {
		return nil, err
	}
	checkpoint.State = json.RawMessage(state)
	return &checkpoint, nil
}
