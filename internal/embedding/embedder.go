// Package embedding adapts external embedding providers into the engine's vector type.
package embedding

import (
	"context"
	"errors"
)

// Provider boundary faults. Callers can distinguish them with errors.Is to
// decide on retry/backoff; the engine itself never retries.
var (
	// ErrProviderUnavailable indicates a network-level failure (connection
	// refused, timeout) reaching the provider.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	// ErrProviderError indicates a non-success provider response (bad
	// request, quota exceeded, auth failure).
	ErrProviderError = errors.New("embedding provider error")
	// ErrMalformedResponse indicates a response body lacking the expected
	// vector payload.
	ErrMalformedResponse = errors.New("malformed embedding response")
)

// Embedder produces vector embeddings for text. All vectors from one
// Embedder have the same length, reported by Dimensions.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
