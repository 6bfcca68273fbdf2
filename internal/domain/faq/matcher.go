package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

// EmbeddingMatcher ranks stored records by cosine similarity between the
// query embedding and each record's embedding.
type EmbeddingMatcher struct {
	cfg      Config
	store    Store
	embedder Embedder
	logger   *slog.Logger
}

// NewEmbeddingMatcher constructs the cosine-similarity matcher.
func NewEmbeddingMatcher(cfg Config, store Store, embedder Embedder, logger *slog.Logger) *EmbeddingMatcher {
	return &EmbeddingMatcher{
		cfg:      cfg,
		store:    store,
		embedder: embedder,
		logger:   logger.With("component", "faq.matcher.embedding"),
	}
}

// Match embeds the query and picks the arg-max similarity record. Records
// with an empty embedding are skipped. The earliest record wins ties, and a
// best score below the threshold reports no match (exactly the threshold
// still matches). Read-only.
func (m *EmbeddingMatcher) Match(ctx context.Context, query string) (MatchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return MatchResult{}, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
	}

	queryEmbedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return MatchResult{}, apperrors.Wrap("embedding_unavailable", "failed to embed query", err)
	}

	records, err := m.store.ListAll(ctx)
	if err != nil {
		return MatchResult{}, err
	}

	var (
		best    Record
		bestIdx = -1
		highest float64
	)
	for i, record := range records {
		if len(record.Embedding) == 0 {
			continue
		}
		score := CosineSimilarity(record.Embedding, queryEmbedding)
		if bestIdx == -1 || score > highest {
			best = record
			bestIdx = i
			highest = score
		}
	}

	if bestIdx == -1 || highest < m.cfg.SimilarityThreshold {
		return MatchResult{Related: relatedQuestions(records, "", m.cfg.MaxRelated)}, nil
	}

	return MatchResult{
		Matched: &best,
		Answer:  best.Answer,
		Score:   highest,
		Related: relatedQuestions(records, best.Question, m.cfg.MaxRelated),
	}, nil
}

// CosineSimilarity computes dot(a,b) / (||a||*||b||) with double-precision
// accumulation. Mismatched or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// relatedQuestions samples up to max distinct questions, excluding the
// matched one. Order is intentionally unspecified.
func relatedQuestions(records []Record, exclude string, max int) []string {
	if max <= 0 {
		return nil
	}
	candidates := make([]string, 0, len(records))
	for _, record := range records {
		if record.Question == exclude {
			continue
		}
		candidates = append(candidates, record.Question)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

type chatClient interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// LLMMatcher delegates the whole matching decision to a chat completion over
// the full FAQ list, mirroring the prompt-ranked strategy.
type LLMMatcher struct {
	cfg    Config
	store  Store
	client chatClient
	logger *slog.Logger
}

// NewLLMMatcher constructs the LLM-delegated matcher.
func NewLLMMatcher(cfg Config, store Store, client chatClient, logger *slog.Logger) *LLMMatcher {
	return &LLMMatcher{
		cfg:    cfg,
		store:  store,
		client: client,
		logger: logger.With("component", "faq.matcher.llm"),
	}
}

// Match asks the model to pick the most relevant answer. The model signals
// no-match by emitting the configured fallback phrase, which Match reports
// as Matched == nil with an empty Answer.
func (m *LLMMatcher) Match(ctx context.Context, query string) (MatchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return MatchResult{}, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
	}

	records, err := m.store.ListAll(ctx)
	if err != nil {
		return MatchResult{}, err
	}

	catalog := make([]Pair, 0, len(records))
	for _, record := range records {
		catalog = append(catalog, Pair{Question: record.Question, Answer: record.Answer})
	}
	encoded, err := json.Marshal(catalog)
	if err != nil {
		return MatchResult{}, apperrors.Wrap("llm_error", "failed to encode faq list", err)
	}

	system := fmt.Sprintf(
		"You are a smart assistant who finds the most relevant answer from the given FAQs. If no match is found, respond with '%s'",
		m.cfg.FallbackMessage,
	)
	user := fmt.Sprintf("Given the following FAQs: %s\n\nFind the most relevant FAQ for this query: %s", encoded, query)

	answer, err := m.client.Complete(ctx, system, user, m.cfg.Temperature)
	if err != nil {
		return MatchResult{}, apperrors.Wrap("llm_error", "match completion failed", err)
	}

	result := MatchResult{Related: relatedQuestions(records, "", m.cfg.MaxRelated)}
	if strings.Contains(answer, m.cfg.FallbackMessage) {
		return result, nil
	}
	result.Answer = strings.TrimSpace(answer)
	return result, nil
}
