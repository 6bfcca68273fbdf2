package faq

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

// Pipeline turns extracted candidate pairs into deduplicated, embedded
// records. Dedup-then-insert is not atomic across concurrent runs; the
// Postgres store's unique index collapses the losing insert to a skip.
type Pipeline struct {
	store     Store
	embedder  Embedder
	extractor PairExtractor
	logger    *slog.Logger
}

// NewPipeline constructs the ingestion pipeline.
func NewPipeline(store Store, embedder Embedder, extractor PairExtractor, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		embedder:  embedder,
		extractor: extractor,
		logger:    logger.With("component", "faq.pipeline"),
	}
}

// Run extracts candidate pairs from each text, drops candidates whose
// normalized question already exists in the store, embeds the survivors, and
// appends them in one insert. An unparseable extraction response degrades to
// zero candidates for that text instead of failing the run. A failed
// embedding keeps the record with an empty vector.
func (p *Pipeline) Run(ctx context.Context, texts []string) (IngestResult, error) {
	var candidates []Pair
	for _, text := range texts {
		pairs, err := p.extractor.ExtractPairs(ctx, text)
		if err != nil {
			if apperrors.IsCode(err, "extraction_error") {
				p.logger.Warn("extraction response unparseable, skipping text", "error", err)
				continue
			}
			return IngestResult{}, err
		}
		candidates = append(candidates, pairs...)
	}
	if len(candidates) == 0 {
		return IngestResult{}, nil
	}

	existing, err := p.store.ListAll(ctx)
	if err != nil {
		return IngestResult{}, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, record := range existing {
		seen[Normalize(record.Question)] = struct{}{}
	}

	var (
		fresh      []Record
		duplicates int
	)
	now := time.Now().UTC()
	for _, pair := range candidates {
		key := Normalize(pair.Question)
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		record := Record{
			Question:  pair.Question,
			Answer:    pair.Answer,
			CreatedAt: now,
		}
		embedding, err := p.embedder.Embed(ctx, pair.Question+" "+pair.Answer)
		if err != nil || len(embedding) == 0 {
			// Kept without a vector; unmatchable until re-embedded.
			p.logger.Warn("embedding failed for candidate", "question", pair.Question, "error", err)
		} else {
			record.Embedding = embedding
		}
		fresh = append(fresh, record)
	}

	if len(fresh) == 0 {
		return IngestResult{Duplicates: duplicates}, nil
	}

	inserted, err := p.store.Insert(ctx, fresh)
	if err != nil {
		return IngestResult{}, err
	}
	duplicates += len(fresh) - len(inserted)
	return IngestResult{Inserted: inserted, Duplicates: duplicates}, nil
}
