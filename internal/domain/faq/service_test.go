package faq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

type stubParser struct {
	fn func(data []byte) (string, error)
}

func (p *stubParser) ExtractText(_ context.Context, data []byte) (string, error) {
	return p.fn(data)
}

type stubStats struct {
	increments []string
	top        []TrendingQuery
}

func (s *stubStats) IncrementQuery(_ context.Context, canonical, _ string) error {
	s.increments = append(s.increments, canonical)
	return nil
}

func (s *stubStats) TopQueries(context.Context, int) ([]TrendingQuery, error) {
	return s.top, nil
}

func newTestService(store *stubStore, stats QueryStats) Service {
	cfg := Config{SimilarityThreshold: 0.7, MaxRelated: 3, FallbackMessage: "Shall I connect you to an Admin?"}
	embedder := embedConstant([]float32{1, 0})
	matcher := NewEmbeddingMatcher(cfg, store, embedder, testLogger())
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return []Pair{{Question: "Q", Answer: "A"}}, nil
	}}
	pipeline := NewPipeline(store, embedder, extractor, testLogger())
	parser := &stubParser{fn: func([]byte) (string, error) {
		return "extracted text", nil
	}}
	return NewService(cfg, store, matcher, pipeline, parser, stats, testLogger())
}

func TestService_IngestRequiresDocuments(t *testing.T) {
	svc := newTestService(&stubStore{}, &stubStats{})
	_, err := svc.Ingest(context.Background(), nil)
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Ingest(context.Background(), []Document{{Name: "empty.pdf"}})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_IngestUnreadableDocument(t *testing.T) {
	store := &stubStore{}
	cfg := Config{SimilarityThreshold: 0.7, MaxRelated: 3, FallbackMessage: "f"}
	embedder := embedConstant([]float32{1, 0})
	matcher := NewEmbeddingMatcher(cfg, store, embedder, testLogger())
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) { return nil, nil }}
	pipeline := NewPipeline(store, embedder, extractor, testLogger())
	parser := &stubParser{fn: func([]byte) (string, error) {
		return "", apperrors.Wrap("unreadable_document", "not a pdf", nil)
	}}
	svc := NewService(cfg, store, matcher, pipeline, parser, &stubStats{}, testLogger())

	_, err := svc.Ingest(context.Background(), []Document{{Name: "broken.pdf", Data: []byte("junk")}})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unreadable_document"))
	require.Empty(t, store.records)
}

func TestService_IngestStoresRecords(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(store, &stubStats{})

	result, err := svc.Ingest(context.Background(), []Document{{Name: "guide.pdf", Data: []byte("%PDF")}})
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)
	require.Equal(t, "Q", result.Inserted[0].Question)
}

func TestService_QueryBumpsTrending(t *testing.T) {
	store := &stubStore{records: []Record{
		{ID: 1, Question: "What is Zwing?", Answer: "An inventory system.", Embedding: []float32{1, 0}},
	}}
	stats := &stubStats{}
	svc := newTestService(store, stats)

	result, err := svc.Query(context.Background(), "  What is Zwing? ")
	require.NoError(t, err)
	require.NotNil(t, result.Matched)
	require.Equal(t, []string{"what is zwing?"}, stats.increments)
}

func TestService_QueryEmpty(t *testing.T) {
	svc := newTestService(&stubStore{}, &stubStats{})
	_, err := svc.Query(context.Background(), "")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_Trending(t *testing.T) {
	stats := &stubStats{top: []TrendingQuery{{Query: "What is Zwing?", Count: 4}}}
	svc := newTestService(&stubStore{}, stats)

	items, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(4), items[0].Count)
}
