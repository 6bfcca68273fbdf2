package embedder

import (
	"context"
	"hash/fnv"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
)

// DeterministicEmbedder avoids network calls by hashing text into a vector.
// It is the fallback when no LLM API key is configured.
type DeterministicEmbedder struct {
	dim int
}

// NewDeterministicEmbedder constructs the embedder.
func NewDeterministicEmbedder(dim int) *DeterministicEmbedder {
	if dim <= 0 {
		dim = 32
	}
	return &DeterministicEmbedder{dim: dim}
}

// Embed converts the text into a pseudo-random vector.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(text))
	seed := hash.Sum64()
	for j := 0; j < e.dim; j++ {
		seed = seed*1099511628211 + 1469598103934665603
		vector[j] = float32(seed%997) / 997.0
	}
	return vector, nil
}

var _ faq.Embedder = (*DeterministicEmbedder)(nil)
