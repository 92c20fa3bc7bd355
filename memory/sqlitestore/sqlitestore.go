// Package sqlitestore persists long-term memory items in a SQLite database,
// so chatbot sessions keep their memories across restarts.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/leofalp/flowgraph/memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id            TEXT PRIMARY KEY,
	content       TEXT NOT NULL,
	importance    REAL NOT NULL,
	tags          TEXT NOT NULL DEFAULT '',
	access_count  INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMP NOT NULL,
	last_accessed TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_memories_importance ON memories (importance DESC, created_at DESC);
`

// Store is a [memory.Store] backed by SQLite via the cgo-free
// modernc.org/sqlite driver.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Compile-time check that Store implements memory.Store.
var _ memory.Store = (*Store)(nil)

// Open creates or opens the database at path and ensures the schema exists.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (store *Store) Close() error {
	return store.db.Close()
}

// Put stores content after applying the defaults described on [memory.Store].
func (store *Store) Put(ctx context.Context, item memory.Item) (memory.Item, error) {
	item = memory.FillItem(item, store.now())

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO memories (id, content, importance, tags, access_count, created_at, last_accessed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Content, item.Importance, strings.Join(item.Tags, ","),
		item.AccessCount, item.CreatedAt, nullableTime(item.LastAccessed),
	)
	if err != nil {
		return memory.Item{}, fmt.Errorf("sqlitestore: put: %w", err)
	}
	return item, nil
}

// Query returns up to limit items matching query, most relevant first, and
// bumps the access counters of the returned items. Relevance ranking is done
// in memory after a coarse importance-ordered scan; the tutorial datasets
// are small enough that this stays cheap.
func (store *Store) Query(ctx context.Context, query string, limit int) ([]memory.Item, error) {
	items, err := store.scan(ctx)
	if err != nil {
		return nil, err
	}

	matched := items[:0]
	for _, item := range items {
		if query == "" || memory.Relevance(item.Content, query) > 0 {
			matched = append(matched, item)
		}
	}

	if query != "" {
		sort.SliceStable(matched, func(left, right int) bool {
			return memory.Relevance(matched[left].Content, query) > memory.Relevance(matched[right].Content, query)
		})
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	now := store.now()
	for index := range matched {
		matched[index].AccessCount++
		matched[index].LastAccessed = now

		_, err := store.db.ExecContext(ctx,
			`UPDATE memories SET access_count = access_count + 1, last_accessed = ? WHERE id = ?`,
			now, matched[index].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlitestore: bump access count: %w", err)
		}
	}

	return matched, nil
}

// All returns every stored item, most important first.
func (store *Store) All(ctx context.Context) ([]memory.Item, error) {
	return store.scan(ctx)
}

// Forget removes items that are simultaneously old, unimportant, and rarely
// accessed, and returns how many were removed.
func (store *Store) Forget(ctx context.Context, maxAge time.Duration, minImportance float64, minAccess int) (int, error) {
	cutoff := store.now().Add(-maxAge)

	result, err := store.db.ExecContext(ctx,
		`DELETE FROM memories WHERE created_at < ? AND importance < ? AND access_count < ?`,
		cutoff, minImportance, minAccess,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: forget: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: forget: %w", err)
	}
	return int(removed), nil
}

// scan loads every row ordered by importance, then recency.
func (store *Store) scan(ctx context.Context) ([]memory.Item, error) {
	rows, err := store.db.QueryContext(ctx,
		`SELECT id, content, importance, tags, access_count, created_at, last_accessed
		 FROM memories ORDER BY importance DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: query: %w", err)
	}
	defer rows.Close()

	var items []memory.Item
	for rows.Next() {
		var (
			item         memory.Item
			tags         string
			lastAccessed sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.Content, &item.Importance, &tags,
			&item.AccessCount, &item.CreatedAt, &lastAccessed); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan row: %w", err)
		}
		if tags != "" {
			item.Tags = strings.Split(tags, ",")
		}
		if lastAccessed.Valid {
			item.LastAccessed = lastAccessed.Time
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: iterate rows: %w", err)
	}
	return items, nil
}

// nullableTime maps the zero time to NULL.
func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value
}
