// Package ingest orchestrates chunking, embedding, and record storage for input documents.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kioku-dev/kioku/internal/chunker"
	"github.com/kioku-dev/kioku/internal/embedding"
	"github.com/kioku-dev/kioku/internal/models"
	"github.com/kioku-dev/kioku/internal/store"
)

const (
	metaKeyDocumentID = "document_id"
	metaKeyChunkIndex = "chunk_index"
)

// Pipeline ingests documents: split into chunks, embed each chunk, store
// one vector record per chunk.
type Pipeline struct {
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	store    store.RecordStore
	logger   *zap.Logger // optional; when set, logs per-document progress
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets a logger for ingestion progress and failures.
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates an ingestion pipeline with the given dependencies.
func NewPipeline(c *chunker.Chunker, e embedding.Embedder, s store.RecordStore, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{chunker: c, embedder: e, store: s}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result reports what one ingestion call stored.
type Result struct {
	DocumentID     string `json:"document_id"`
	Documents      int    `json:"documents"`
	ChunksIngested int    `json:"chunks_ingested"`
}

// IngestDocument ingests one document. Chunks are processed in sequence
// order, each one embedded and inserted before the next is touched; the
// first chunk whose embedding or insert fails aborts the rest of the
// document, and the error names the failed chunk. Records inserted before
// the failure stay in the store (partial ingestion is an accepted outcome;
// there is no rollback).
func (p *Pipeline) IngestDocument(ctx context.Context, doc *models.Document) (*Result, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	chunks := p.chunker.Chunk(doc.ID, chunker.Preprocess(doc.Text))
	if len(chunks) == 0 {
		// Empty input is not an error; there is simply nothing to store.
		return &Result{DocumentID: doc.ID, Documents: 1}, nil
	}

	stored := 0
	for _, chunk := range chunks {
		vector, err := p.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return &Result{DocumentID: doc.ID, Documents: 1, ChunksIngested: stored},
				fmt.Errorf("document %s chunk %d: embed: %w", doc.ID, chunk.Index, err)
		}
		record := &models.VectorRecord{
			ID:         uuid.New().String(),
			DocumentID: chunk.DocumentID,
			Text:       chunk.Text,
			Vector:     vector,
			Metadata:   recordMetadata(doc, chunk.Index),
		}
		if err := p.store.Insert(ctx, record); err != nil {
			return &Result{DocumentID: doc.ID, Documents: 1, ChunksIngested: stored},
				fmt.Errorf("document %s chunk %d: %w", doc.ID, chunk.Index, err)
		}
		stored++
	}
	if p.logger != nil {
		p.logger.Debug("document ingested",
			zap.String("doc_id", doc.ID),
			zap.Int("chunks", stored))
	}
	return &Result{DocumentID: doc.ID, Documents: 1, ChunksIngested: stored}, nil
}

// IngestReader reads r line by line and ingests each non-blank line as its
// own document, mirroring a line-per-document corpus file. A failed line is
// logged and skipped; the loop continues with the next line. The returned
// result aggregates all successfully ingested lines, and the first error
// encountered (if any) is returned alongside it.
func (p *Pipeline) IngestReader(ctx context.Context, sourceID string, r *bufio.Scanner) (*Result, error) {
	agg := &Result{DocumentID: sourceID}
	var firstErr error
	line := 0
	for r.Scan() {
		line++
		text := r.Text()
		if len(chunker.Preprocess(text)) == 0 {
			continue
		}
		doc := &models.Document{
			ID:   fmt.Sprintf("%s#%d", sourceID, line),
			Text: text,
		}
		res, err := p.IngestDocument(ctx, doc)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("line ingestion failed",
					zap.String("source", sourceID),
					zap.Int("line", line),
					zap.Error(err))
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("line %d: %w", line, err)
			}
			if res != nil {
				agg.ChunksIngested += res.ChunksIngested
			}
			continue
		}
		agg.Documents++
		agg.ChunksIngested += res.ChunksIngested
	}
	if err := r.Err(); err != nil {
		return agg, fmt.Errorf("read source %s: %w", sourceID, err)
	}
	return agg, firstErr
}

// IngestFile ingests a text file, one document per non-blank line. The
// source ID is derived from the absolute path so re-ingesting the same file
// produces records attributed to the same source.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.IngestReader(ctx, FileSourceID(path), bufio.NewScanner(f))
}

func recordMetadata(doc *models.Document, chunkIndex int) map[string]string {
	meta := map[string]string{
		metaKeyDocumentID: doc.ID,
		metaKeyChunkIndex: strconv.Itoa(chunkIndex),
	}
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	return meta
}
