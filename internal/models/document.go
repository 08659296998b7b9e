// Package models defines core data structures for documents, vector records, and query results.
package models

import "time"

// Document is a raw input text with an identifier. It is consumed by the
// ingestion pipeline and not retained after its chunks are stored.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Chunk is an ordered piece of a document's text produced by the chunker.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
}

// VectorRecord is a stored (chunk text, embedding) pair. Records are
// append-only: never mutated after creation.
type VectorRecord struct {
	ID         string            `json:"id" db:"id"`
	DocumentID string            `json:"document_id" db:"document_id"`
	Text       string            `json:"text" db:"text"`
	Vector     []float32         `json:"-" db:"vector"`
	Metadata   map[string]string `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}
