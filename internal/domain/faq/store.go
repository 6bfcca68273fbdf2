package faq

import "context"

// Store is the durable FAQ collection. Implementations do not deduplicate or
// validate; failures surface as store_unavailable with no partial append.
type Store interface {
	// ListAll returns every current record in stable enumeration order.
	ListAll(ctx context.Context) ([]Record, error)
	// Insert appends records and returns those actually stored with their
	// assigned IDs. Backends with a uniqueness constraint on the normalized
	// question may silently skip conflicting rows.
	Insert(ctx context.Context, records []Record) ([]Record, error)
}

// Embedder produces the semantic vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PairExtractor turns raw document text into candidate question/answer
// pairs. An unparseable model response fails with code extraction_error;
// transport failures carry llm_error.
type PairExtractor interface {
	ExtractPairs(ctx context.Context, text string) ([]Pair, error)
}

// DocumentParser extracts plain text from an uploaded document.
type DocumentParser interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Matcher answers a free-text query against the store.
type Matcher interface {
	Match(ctx context.Context, query string) (MatchResult, error)
}

// QueryStats counts queries for the trending endpoint. Best-effort; callers
// log and continue on failure.
type QueryStats interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
