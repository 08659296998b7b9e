package similarity

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kioku-dev/kioku/internal/models"
)

// parallelThreshold is the candidate count above which scoring is sharded
// across workers. Below it the goroutine overhead is not worth it.
const parallelThreshold = 2048

// Ranker computes a similarity score per candidate record and returns the
// top K, descending. It is stateless apart from its metric and logger, and
// never mutates candidate records.
type Ranker struct {
	metric Metric
	logger *zap.Logger // optional; when set, logs skipped candidates
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithLogger sets a logger for skipped-record warnings.
func WithLogger(l *zap.Logger) RankerOption {
	return func(r *Ranker) { r.logger = l }
}

// NewRanker creates a ranker with the given metric (Cosine when nil).
func NewRanker(metric Metric, opts ...RankerOption) *Ranker {
	if metric == nil {
		metric = Cosine{}
	}
	r := &Ranker{metric: metric}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every candidate against query and returns the top k results
// ordered by descending score. Ties keep the candidates' scan order. When
// fewer than k candidates exist, all of them are returned; an empty
// candidate set yields an empty slice, not an error.
//
// A candidate whose score faults (dimension mismatch against the query, or
// zero norm) is skipped with a logged warning; the ranking over the
// remaining candidates still succeeds. A query vector that is itself
// degenerate or empty aborts the whole ranking.
func (r *Ranker) Rank(query []float32, candidates []*models.VectorRecord, k int) ([]*models.SimilarityResult, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("query vector: %w", ErrDegenerateVector)
	}
	var norm float64
	for _, v := range query {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return nil, fmt.Errorf("query vector: %w", ErrDegenerateVector)
	}
	if k <= 0 || len(candidates) == 0 {
		return []*models.SimilarityResult{}, nil
	}

	// Scores land in a position-indexed slice, so parallel scoring cannot
	// disturb scan order and the later stable sort stays reproducible.
	scored := make([]*models.SimilarityResult, len(candidates))
	if len(candidates) >= parallelThreshold {
		r.scoreParallel(query, candidates, scored)
	} else {
		for i, rec := range candidates {
			scored[i] = r.scoreOne(query, rec)
		}
	}

	results := make([]*models.SimilarityResult, 0, len(candidates))
	for _, s := range scored {
		if s != nil {
			results = append(results, s)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// scoreOne returns the scored result for rec, or nil when the record is
// skipped under the skip-with-fault policy.
func (r *Ranker) scoreOne(query []float32, rec *models.VectorRecord) *models.SimilarityResult {
	score, err := r.metric.Score(query, rec.Vector)
	if err != nil {
		if r.logger != nil {
			var mismatch *models.DimensionMismatchError
			switch {
			case errors.As(err, &mismatch):
				r.logger.Warn("skipping record with mismatched dimensions",
					zap.String("record_id", rec.ID),
					zap.Int("want", mismatch.Want),
					zap.Int("got", mismatch.Got))
			case errors.Is(err, ErrDegenerateVector):
				r.logger.Warn("skipping record with zero-norm vector",
					zap.String("record_id", rec.ID))
			default:
				r.logger.Warn("skipping record", zap.String("record_id", rec.ID), zap.Error(err))
			}
		}
		return nil
	}
	return &models.SimilarityResult{Record: rec, Score: score}
}

// scoreParallel shards scoring across GOMAXPROCS workers. Each worker owns
// a contiguous range of the output slice; no shared mutable state.
func (r *Ranker) scoreParallel(query []float32, candidates []*models.VectorRecord, out []*models.SimilarityResult) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(candidates) {
		workers = len(candidates)
	}
	chunk := (len(candidates) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(candidates) {
			hi = len(candidates)
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = r.scoreOne(query, candidates[i])
			}
		}(lo, hi)
	}
	wg.Wait()
}
