// Package query answers similarity queries over the stored records.
package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kioku-dev/kioku/internal/embedding"
	"github.com/kioku-dev/kioku/internal/models"
	"github.com/kioku-dev/kioku/internal/similarity"
	"github.com/kioku-dev/kioku/internal/store"
)

// Pipeline embeds a query, scans the store, and ranks the candidates.
type Pipeline struct {
	embedder embedding.Embedder
	store    store.RecordStore
	ranker   *similarity.Ranker
	logger   *zap.Logger // optional
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets a logger for query timing and failures.
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a query pipeline with the given dependencies.
func NewPipeline(e embedding.Embedder, s store.RecordStore, r *similarity.Ranker, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{embedder: e, store: s, ranker: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Query answers req: embed the query text, scan every stored record, rank by
// similarity, and return the top K matches in ranked order. A failure at the
// embedding or scan step propagates unchanged with no partial ranking. An
// empty store yields an empty match list, not an error.
func (p *Pipeline) Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	queryVec, err := p.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	candidates, err := p.store.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	results, err := p.ranker.Rank(queryVec, candidates, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	matches := make([]*models.Match, len(results))
	for i, res := range results {
		matches[i] = &models.Match{
			RecordID:   res.Record.ID,
			DocumentID: res.Record.DocumentID,
			Text:       res.Record.Text,
			Score:      res.Score,
		}
	}
	resp := &models.QueryResponse{
		Query:     req.Query,
		Matches:   matches,
		QueryTime: time.Since(start).Milliseconds(),
	}
	if p.logger != nil {
		p.logger.Debug("query answered",
			zap.String("query", req.Query),
			zap.Int("candidates", len(candidates)),
			zap.Int("matches", len(matches)),
			zap.Int64("query_time_ms", resp.QueryTime))
	}
	return resp, nil
}
