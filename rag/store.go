package rag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Hit is one search result: a document chunk with its similarity score.
type Hit struct {
	// DocumentID identifies the source document.
	DocumentID string

	// Title is the source document's title.
	Title string

	// Chunk is the matched text window.
	Chunk string

	// Score is the cosine similarity to the query, in [0, 1].
	Score float64
}

// VectorStore is an in-memory chunk index with cosine-similarity search.
type VectorStore struct {
	mu        sync.RWMutex
	documents map[string]Document
	chunks    []indexedChunk
}

type indexedChunk struct {
	documentID string
	text       string
	embedding  []float64
}

// NewVectorStore returns an empty store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		documents: make(map[string]Document),
	}
}

// Add chunks and indexes document. Re-adding a document with identical
// content replaces the previous chunks.
func (store *VectorStore) Add(document Document) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, exists := store.documents[document.ID]; exists {
		kept := store.chunks[:0]
		for _, chunk := range store.chunks {
			if chunk.documentID != document.ID {
				kept = append(kept, chunk)
			}
		}
		store.chunks = kept
	}

	store.documents[document.ID] = document
	for _, text := range document.Chunks(0, 0) {
		store.chunks = append(store.chunks, indexedChunk{
			documentID: document.ID,
			text:       text,
			embedding:  Embed(text),
		})
	}
}

// Len returns the number of indexed documents.
func (store *VectorStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.documents)
}

// Search returns the top k chunks by cosine similarity to query.
func (store *VectorStore) Search(query string, k int) []Hit {
	if k <= 0 {
		return nil
	}

	queryEmbedding := Embed(query)

	store.mu.RLock()
	hits := make([]Hit, 0, len(store.chunks))
	for _, chunk := range store.chunks {
		hits = append(hits, Hit{
			DocumentID: chunk.documentID,
			Title:      store.documents[chunk.documentID].Title,
			Chunk:      chunk.text,
			Score:      Cosine(queryEmbedding, chunk.embedding),
		})
	}
	store.mu.RUnlock()

	sort.SliceStable(hits, func(left, right int) bool {
		return hits[left].Score > hits[right].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Context assembles the top k chunks into a prompt context block, each
// chunk prefixed with its source title.
func (store *VectorStore) Context(query string, k int) string {
	hits := store.Search(query, k)

	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		title := hit.Title
		if title == "" {
			title = "unknown"
		}
		parts = append(parts, fmt.Sprintf("[source: %s]\n%s", title, hit.Chunk))
	}
	return strings.Join(parts, "\n\n")
}
