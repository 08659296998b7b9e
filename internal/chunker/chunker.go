// Package chunker splits document text into bounded-size chunks.
package chunker

import (
	"strings"

	"github.com/kioku-dev/kioku/internal/models"
)

// DefaultChunkSize is the word budget per chunk when none is configured.
const DefaultChunkSize = 800

// Chunker splits text into word-based chunks of at most size words, with an
// optional overlap between consecutive chunks.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
// A non-positive size falls back to DefaultChunkSize; a negative overlap is
// treated as zero.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the chunk texts for text in order. The split is pure and
// deterministic: the same input always yields the same chunks. Empty or
// whitespace-only input yields nil rather than an error.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	if step <= 0 {
		step = 1
	}
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end >= len(words) {
			break
		}
	}
	return chunks
}

// Chunk splits text and attaches document attribution (document ID and
// sequence index) to each chunk.
func (c *Chunker) Chunk(docID, text string) []*models.Chunk {
	texts := c.Split(text)
	if len(texts) == 0 {
		return nil
	}
	chunks := make([]*models.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = &models.Chunk{
			DocumentID: docID,
			Index:      i,
			Text:       t,
		}
	}
	return chunks
}
