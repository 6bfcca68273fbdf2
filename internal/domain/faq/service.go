package faq

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

// Service exposes the FAQ operations consumed by the HTTP transport.
type Service interface {
	Ingest(ctx context.Context, docs []Document) (IngestResult, error)
	Query(ctx context.Context, query string) (MatchResult, error)
	ListAll(ctx context.Context) ([]Record, error)
	Trending(ctx context.Context, limit int) ([]TrendingQuery, error)
}

type service struct {
	cfg      Config
	store    Store
	matcher  Matcher
	pipeline *Pipeline
	parser   DocumentParser
	stats    QueryStats
	logger   *slog.Logger
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, store Store, matcher Matcher, pipeline *Pipeline, parser DocumentParser, stats QueryStats, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		store:    store,
		matcher:  matcher,
		pipeline: pipeline,
		parser:   parser,
		stats:    stats,
		logger:   logger.With("component", "faq.service"),
	}
}

// Ingest parses each uploaded document and runs the pipeline once over the
// combined candidate set, mirroring the multi-file upload flow.
func (s *service) Ingest(ctx context.Context, docs []Document) (IngestResult, error) {
	if len(docs) == 0 {
		return IngestResult{}, apperrors.Wrap("invalid_input", "no documents uploaded", nil)
	}
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Data) == 0 {
			return IngestResult{}, apperrors.Wrap("invalid_input", "uploaded document is empty", nil)
		}
		text, err := s.parser.ExtractText(ctx, doc.Data)
		if err != nil {
			return IngestResult{}, err
		}
		texts = append(texts, text)
	}

	result, err := s.pipeline.Run(ctx, texts)
	if err != nil {
		return IngestResult{}, err
	}
	s.logger.Info("ingest complete", "documents", len(docs), "inserted", len(result.Inserted), "duplicates", result.Duplicates)
	return result, nil
}

// Query validates the text, delegates to the configured matcher, and bumps
// the trending counter best-effort.
func (s *service) Query(ctx context.Context, query string) (MatchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return MatchResult{}, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
	}

	result, err := s.matcher.Match(ctx, query)
	if err != nil {
		return MatchResult{}, err
	}

	if s.stats != nil {
		if err := s.stats.IncrementQuery(ctx, Normalize(query), query); err != nil {
			s.logger.Warn("trending increment failed", "error", err)
		}
	}
	return result, nil
}

func (s *service) ListAll(ctx context.Context) ([]Record, error) {
	return s.store.ListAll(ctx)
}

func (s *service) Trending(ctx context.Context, limit int) ([]TrendingQuery, error) {
	if s.stats == nil {
		return nil, nil
	}
	items, err := s.stats.TopQueries(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("store_unavailable", "failed to load trending queries", err)
	}
	return items, nil
}
