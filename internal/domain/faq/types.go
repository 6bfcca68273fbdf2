package faq

import "time"

// Record is a stored question/answer pair with its semantic vector.
// Embedding may be empty when generation failed; such records are never
// selected by the embedding matcher.
type Record struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pair is a candidate question/answer extracted from document text.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Document carries raw uploaded bytes into ingestion.
type Document struct {
	Name string
	Data []byte
}

// IngestResult reports what a single ingestion run stored.
type IngestResult struct {
	Inserted   []Record `json:"inserted"`
	Duplicates int      `json:"duplicates"`
}

// AllDuplicates reports whether every candidate already existed.
func (r IngestResult) AllDuplicates() bool {
	return len(r.Inserted) == 0 && r.Duplicates > 0
}

// MatchResult is the outcome of answering a free-text query.
// Matched is nil when no record cleared the threshold. Answer carries the
// rendered reply text; in the LLM-delegated strategy it is the model output
// and Matched stays nil.
type MatchResult struct {
	Matched *Record  `json:"matched,omitempty"`
	Answer  string   `json:"answer,omitempty"`
	Score   float64  `json:"score,omitempty"`
	Related []string `json:"relatedQuestions"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
