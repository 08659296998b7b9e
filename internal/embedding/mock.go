package embedding

import (
	"context"
	"math"

	"github.com/kioku-dev/kioku/pkg/utils"
)

// MockEmbedder is a deterministic embedder for tests and provider-less
// deployments. The same text always gets the same unit-length vector, and
// similar word sets get nearby vectors, which is enough for end-to-end
// retrieval tests.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns an embedder producing vectors of the given length.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns a deterministic embedding derived from the text's words.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)
	for _, word := range utils.SplitWords(text) {
		h := utils.HashString(word)
		vec[h%e.dimensions] += 1
		vec[(h/7)%e.dimensions] += float32(math.Sin(float64(h)) * 0.5)
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch calls Embed for each text.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the embedding length.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *MockEmbedder) Close() error {
	return nil
}
