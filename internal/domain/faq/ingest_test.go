package faq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

type stubExtractor struct {
	fn func(text string) ([]Pair, error)
}

func (e *stubExtractor) ExtractPairs(_ context.Context, text string) ([]Pair, error) {
	return e.fn(text)
}

func embedConstant(vec []float32) *stubEmbedder {
	return &stubEmbedder{fn: func(string) ([]float32, error) {
		return vec, nil
	}}
}

func TestPipeline_InsertsNewCandidates(t *testing.T) {
	store := &stubStore{}
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return []Pair{
			{Question: "What is Zwing?", Answer: "An inventory system."},
			{Question: "How to create advice?", Answer: "Inventory, then Advice."},
		}, nil
	}}
	pipeline := NewPipeline(store, embedConstant([]float32{1, 0}), extractor, testLogger())

	result, err := pipeline.Run(context.Background(), []string{"doc text"})
	require.NoError(t, err)
	require.Len(t, result.Inserted, 2)
	require.Zero(t, result.Duplicates)
	require.False(t, result.AllDuplicates())
	require.Equal(t, []float32{1, 0}, result.Inserted[0].Embedding)
}

func TestPipeline_DedupIdempotent(t *testing.T) {
	store := &stubStore{}
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return []Pair{{Question: "What is Zwing?", Answer: "An inventory system."}}, nil
	}}
	pipeline := NewPipeline(store, embedConstant([]float32{1, 0}), extractor, testLogger())

	first, err := pipeline.Run(context.Background(), []string{"doc"})
	require.NoError(t, err)
	require.Len(t, first.Inserted, 1)

	second, err := pipeline.Run(context.Background(), []string{"doc"})
	require.NoError(t, err)
	require.Empty(t, second.Inserted)
	require.Equal(t, 1, second.Duplicates)
	require.True(t, second.AllDuplicates())
	require.Len(t, store.records, 1)
}

func TestPipeline_DedupIsCaseInsensitive(t *testing.T) {
	store := &stubStore{records: []Record{{ID: 1, Question: "x", Answer: "1"}}}
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return []Pair{{Question: "  X ", Answer: "1"}}, nil
	}}
	pipeline := NewPipeline(store, embedConstant([]float32{1, 0}), extractor, testLogger())

	result, err := pipeline.Run(context.Background(), []string{"doc"})
	require.NoError(t, err)
	require.Empty(t, result.Inserted)
	require.True(t, result.AllDuplicates())
}

func TestPipeline_UnparseableExtractionDegradesToEmpty(t *testing.T) {
	store := &stubStore{}
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return nil, apperrors.Wrap("extraction_error", "model returned prose", nil)
	}}
	pipeline := NewPipeline(store, embedConstant([]float32{1, 0}), extractor, testLogger())

	result, err := pipeline.Run(context.Background(), []string{"doc"})
	require.NoError(t, err)
	require.Empty(t, result.Inserted)
	require.Zero(t, result.Duplicates)
}

func TestPipeline_TransportFailurePropagates(t *testing.T) {
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return nil, apperrors.Wrap("llm_error", "completion failed", errors.New("boom"))
	}}
	pipeline := NewPipeline(&stubStore{}, embedConstant([]float32{1, 0}), extractor, testLogger())

	_, err := pipeline.Run(context.Background(), []string{"doc"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "llm_error"))
}

func TestPipeline_EmbeddingFailureKeepsRecord(t *testing.T) {
	store := &stubStore{}
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return []Pair{{Question: "Q", Answer: "A"}}, nil
	}}
	embedder := &stubEmbedder{fn: func(string) ([]float32, error) {
		return nil, errors.New("provider down")
	}}
	pipeline := NewPipeline(store, embedder, extractor, testLogger())

	result, err := pipeline.Run(context.Background(), []string{"doc"})
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)
	require.Empty(t, result.Inserted[0].Embedding)
}

func TestPipeline_StoreFailureAborts(t *testing.T) {
	store := &stubStore{listErr: apperrors.Wrap("store_unavailable", "postgres down", nil)}
	extractor := &stubExtractor{fn: func(string) ([]Pair, error) {
		return []Pair{{Question: "Q", Answer: "A"}}, nil
	}}
	pipeline := NewPipeline(store, embedConstant([]float32{1, 0}), extractor, testLogger())

	_, err := pipeline.Run(context.Background(), []string{"doc"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "store_unavailable"))
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "what is zwing?", Normalize("  What is Zwing? "))
	require.Equal(t, "", Normalize("   "))
}
