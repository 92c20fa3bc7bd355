package memory

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is the default [Store] implementation, backed by a mutex-
// guarded slice. Suitable for the tutorials and tests; use the sqlitestore
// subpackage when items must survive restarts.
type InMemoryStore struct {
	mu    sync.Mutex
	items []Item
	now   func() time.Time
}

// Compile-time check that InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore returns an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{now: time.Now}
}

// Put stores content after applying the defaults described on [Store].
func (store *InMemoryStore) Put(_ context.Context, item Item) (Item, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	item = FillItem(item, store.now())
	store.items = append(store.items, item)
	return item, nil
}

// Query returns up to limit items matching query, most relevant first, and
// bumps the access counters of the returned items.
func (store *InMemoryStore) Query(_ context.Context, query string, limit int) ([]Item, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matched := make([]*Item, 0, len(store.items))
	for index := range store.items {
		item := &store.items[index]
		if query == "" || Relevance(item.Content, query) > 0 {
			matched = append(matched, item)
		}
	}

	if query == "" {
		sort.SliceStable(matched, func(left, right int) bool {
			return matched[left].Importance > matched[right].Importance
		})
	} else {
		sort.SliceStable(matched, func(left, right int) bool {
			return Relevance(matched[left].Content, query) > Relevance(matched[right].Content, query)
		})
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	now := store.now()
	out := make([]Item, 0, len(matched))
	for _, item := range matched {
		item.AccessCount++
		item.LastAccessed = now
		out = append(out, *item)
	}
	return out, nil
}

// All returns a copy of every stored item, most important first.
func (store *InMemoryStore) All(_ context.Context) ([]Item, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	out := make([]Item, len(store.items))
	copy(out, store.items)
	sortByImportance(out)
	return out, nil
}

// Forget removes items that are simultaneously old, unimportant, and
// rarely accessed, and returns how many were removed.
func (store *InMemoryStore) Forget(_ context.Context, maxAge time.Duration, minImportance float64, minAccess int) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	cutoff := store.now().Add(-maxAge)

	kept := store.items[:0]
	removed := 0
	for _, item := range store.items {
		stale := item.CreatedAt.Before(cutoff) &&
			item.Importance < minImportance &&
			item.AccessCount < minAccess
		if stale {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	store.items = kept
	return removed, nil
}
