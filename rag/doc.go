// Package rag implements the toy retrieval pipeline behind the
// retrieval-QA workflow: documents are split into overlapping word windows,
// embedded with a hashed bag-of-words vector, indexed in an in-memory
// [VectorStore], and retrieved by cosine similarity to assemble a prompt
// context with source attribution.
package rag
