package rag

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Chunking defaults, in words.
const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

// Document is one knowledge-base entry.
type Document struct {
	// ID is derived from the content hash, so re-adding the same content
	// yields the same document.
	ID string

	// Title labels the document in source attributions.
	Title string

	// Source records where the content came from.
	Source string

	// Content is the full document text.
	Content string
}

// NewDocument builds a document with a content-derived ID.
func NewDocument(title, source, content string) Document {
	sum := md5.Sum([]byte(content))
	return Document{
		ID:      "doc_" + hex.EncodeToString(sum[:])[:12],
		Title:   title,
		Source:  source,
		Content: content,
	}
}

// Chunks splits the content into word windows of size words with overlap
// words shared between consecutive chunks. Zero or negative arguments fall
// back to the defaults (500/50).
func (document Document) Chunks(size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultChunkOverlap
	}

	words := strings.Fields(document.Content)
	if len(words) == 0 {
		return nil
	}

	stride := size - overlap

	var chunks []string
	for start := 0; start < len(words); start += stride {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
