package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item is one long-term memory entry.
type Item struct {
	// ID uniquely identifies the item.
	ID string `json:"id"`

	// Content is the remembered text.
	Content string `json:"content"`

	// Importance is a score in [0, 1] from [ScoreImportance].
	Importance float64 `json:"importance"`

	// Tags are coarse topic labels extracted from the content.
	Tags []string `json:"tags,omitempty"`

	// AccessCount tracks how often the item was returned by Query.
	AccessCount int `json:"access_count"`

	// CreatedAt is when the item was stored.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessed is when the item was last returned by Query.
	LastAccessed time.Time `json:"last_accessed"`
}

// Store is a long-term memory backend. Items are scored for importance on
// the way in, retrieved by keyword relevance, and periodically pruned by
// [Store.Forget].
type Store interface {
	// Put stores content and returns the created item. An empty ID is
	// filled with a new UUID and a zero importance is computed from the
	// content.
	Put(ctx context.Context, item Item) (Item, error)

	// Query returns up to limit items matching the query, most relevant
	// first. An empty query returns the most important items. Returned
	// items have their access counters bumped.
	Query(ctx context.Context, query string, limit int) ([]Item, error)

	// All returns every stored item, most important first.
	All(ctx context.Context) ([]Item, error)

	// Forget removes items that are older than maxAge, scored below
	// minImportance, and accessed fewer than minAccess times. It returns
	// the number of items removed.
	Forget(ctx context.Context, maxAge time.Duration, minImportance float64, minAccess int) (int, error)
}

// ScoreImportance rates content in [0, 1]. The base score is 0.5, raised by
// length (up to +0.3), urgency keywords (+0.1 each), questions (+0.2), and
// emotional language (+0.1 each), capped at 1.0.
func ScoreImportance(content string) float64 {
	importance := 0.5

	importance += min(float64(len(content))/200, 0.3)

	lowered := strings.ToLower(content)
	for _, keyword := range []string{"important", "urgent", "critical", "remember", "must"} {
		if strings.Contains(lowered, keyword) {
			importance += 0.1
		}
	}

	if strings.Contains(content, "?") {
		importance += 0.2
	}

	for _, keyword := range []string{"happy", "sad", "angry", "worried"} {
		if strings.Contains(lowered, keyword) {
			importance += 0.1
		}
	}

	return min(importance, 1.0)
}

// ExtractTags pulls coarse topic and time labels out of content.
func ExtractTags(content string) []string {
	lowered := strings.ToLower(content)

	var tags []string
	for _, topic := range []string{"work", "study", "family", "health", "tech", "today", "tomorrow", "yesterday"} {
		if strings.Contains(lowered, topic) {
			tags = append(tags, topic)
		}
	}
	return tags
}

// Relevance counts the words query and content have in common.
func Relevance(content, query string) int {
	queryWords := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(query)) {
		queryWords[word] = struct{}{}
	}

	common := 0
	for _, word := range strings.Fields(strings.ToLower(content)) {
		if _, ok := queryWords[word]; ok {
			common++
			delete(queryWords, word)
		}
	}
	return common
}

// FillItem applies the Put defaults.
func FillItem(item Item, now time.Time) Item {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Importance == 0 {
		item.Importance = ScoreImportance(item.Content)
	}
	if item.Tags == nil {
		item.Tags = ExtractTags(item.Content)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	return item
}

// sortByImportance orders items by importance, then recency.
func sortByImportance(items []Item) {
	sort.SliceStable(items, func(left, right int) bool {
		if items[left].Importance != items[right].Importance {
			return items[left].Importance > items[right].Importance
		}
		return items[left].CreatedAt.After(items[right].CreatedAt)
	})
}
