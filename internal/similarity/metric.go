// Package similarity scores stored records against a query vector and ranks the top K.
package similarity

import (
	"errors"
	"math"

	"github.com/kioku-dev/kioku/internal/models"
)

// ErrDegenerateVector indicates a vector with zero norm, for which cosine
// similarity is undefined (0/0). Rejected rather than propagating NaN.
var ErrDegenerateVector = errors.New("degenerate vector: zero norm")

// Metric scores the similarity of two equal-length vectors. Higher means
// more similar for every Metric in this package, so the ranker can sort
// descending regardless of which metric is plugged in.
type Metric interface {
	Score(q, v []float32) (float64, error)
	Name() string
}

// Cosine is cosine similarity: dot(q,v) / (|q| * |v|), in [-1, 1].
type Cosine struct{}

// Score returns the cosine similarity of q and v. Errors: dimension
// mismatch, or ErrDegenerateVector when either norm is zero.
func (Cosine) Score(q, v []float32) (float64, error) {
	if len(q) != len(v) {
		return 0, &models.DimensionMismatchError{Want: len(q), Got: len(v)}
	}
	var dot, nq, nv float64
	for i := range q {
		fq := float64(q[i])
		fv := float64(v[i])
		dot += fq * fv
		nq += fq * fq
		nv += fv * fv
	}
	if nq == 0 || nv == 0 {
		return 0, ErrDegenerateVector
	}
	return dot / (math.Sqrt(nq) * math.Sqrt(nv)), nil
}

func (Cosine) Name() string { return "cosine" }

// DotProduct is the raw inner product. For unit vectors it equals cosine.
type DotProduct struct{}

// Score returns the inner product of q and v.
func (DotProduct) Score(q, v []float32) (float64, error) {
	if len(q) != len(v) {
		return 0, &models.DimensionMismatchError{Want: len(q), Got: len(v)}
	}
	var dot float64
	for i := range q {
		dot += float64(q[i]) * float64(v[i])
	}
	return dot, nil
}

func (DotProduct) Name() string { return "dot" }

// Euclidean scores by negated L2 distance so that a smaller distance yields
// a higher score and descending sort order still means most similar first.
type Euclidean struct{}

// Score returns the negated Euclidean distance between q and v.
func (Euclidean) Score(q, v []float32) (float64, error) {
	if len(q) != len(v) {
		return 0, &models.DimensionMismatchError{Want: len(q), Got: len(v)}
	}
	var sum float64
	for i := range q {
		d := float64(q[i]) - float64(v[i])
		sum += d * d
	}
	return -math.Sqrt(sum), nil
}

func (Euclidean) Name() string { return "euclidean" }

// NewMetric returns the metric named by name: "cosine" (default when
// empty), "dot", or "euclidean".
func NewMetric(name string) (Metric, error) {
	switch name {
	case "", "cosine":
		return Cosine{}, nil
	case "dot":
		return DotProduct{}, nil
	case "euclidean":
		return Euclidean{}, nil
	default:
		return nil, errors.New("unknown similarity metric: " + name)
	}
}
