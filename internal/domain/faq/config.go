package faq

// Strategy selects which matcher answers queries.
type Strategy string

const (
	// StrategyEmbedding ranks records by cosine similarity of embeddings.
	StrategyEmbedding Strategy = "embedding"
	// StrategyLLM delegates the whole matching decision to a chat completion.
	StrategyLLM Strategy = "llm"
)

// Config holds runtime knobs for the FAQ subsystem.
type Config struct {
	Model               string
	EmbeddingModel      string
	Temperature         float32
	MatchStrategy       Strategy
	SimilarityThreshold float64
	MaxRelated          int
	FallbackMessage     string
}
