package faqstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

// pgxConn is the slice of pgxpool.Pool the store uses.
type pgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore persists FAQ records. A unique index on the normalized
// question makes concurrent ingestions converge on one copy per question.
type PostgresStore struct {
	conn pgxConn
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{conn: pool}
}

// ListAll returns every record in insertion order.
func (s *PostgresStore) ListAll(ctx context.Context) ([]faq.Record, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, question, answer, embedding, created_at
		FROM faqs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apperrors.Wrap("store_unavailable", "list faqs", err)
	}
	defer rows.Close()

	var records []faq.Record
	for rows.Next() {
		var (
			rec faq.Record
			raw any
		)
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Answer, &raw, &rec.CreatedAt); err != nil {
			return nil, apperrors.Wrap("store_unavailable", "scan faq row", err)
		}
		embedding, err := normalizeEmbedding(raw)
		if err != nil {
			return nil, apperrors.Wrap("store_unavailable", "decode faq embedding", err)
		}
		rec.Embedding = embedding
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap("store_unavailable", "list faqs", err)
	}
	return records, nil
}

// Insert stores the records in one transaction, silently skipping questions
// that already exist. It returns the rows that were actually inserted; on
// failure the whole batch is rolled back and nothing becomes visible.
func (s *PostgresStore) Insert(ctx context.Context, records []faq.Record) ([]faq.Record, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, apperrors.Wrap("store_unavailable", "begin faq insert", err)
	}
	defer tx.Rollback(ctx)

	var inserted []faq.Record
	for _, rec := range records {
		var embedding any
		if len(rec.Embedding) > 0 {
			embedding = pgvector.NewVector(rec.Embedding)
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO faqs (question, answer, normalized_question, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (normalized_question) DO NOTHING
			RETURNING id
		`, rec.Question, rec.Answer, faq.Normalize(rec.Question), embedding, rec.CreatedAt)
		if err := row.Scan(&rec.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Another writer got there first.
				continue
			}
			return nil, apperrors.Wrap("store_unavailable", "insert faq", err)
		}
		inserted = append(inserted, rec)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Wrap("store_unavailable", "commit faq insert", err)
	}
	return inserted, nil
}

var _ faq.Store = (*PostgresStore)(nil)

func normalizeEmbedding(raw any) ([]float32, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case pgvector.Vector:
		return append([]float32(nil), v.Slice()...), nil
	case []float32:
		return append([]float32(nil), v...), nil
	case string:
		trimmed := strings.TrimSpace(v)
		trimmed = strings.TrimPrefix(trimmed, "[")
		trimmed = strings.TrimSuffix(trimmed, "]")
		if trimmed == "" {
			return nil, nil
		}
		parts := strings.Split(trimmed, ",")
		out := make([]float32, 0, len(parts))
		for _, p := range parts {
			numStr := strings.TrimSpace(p)
			if numStr == "" {
				continue
			}
			f, err := strconv.ParseFloat(numStr, 32)
			if err != nil {
				return nil, err
			}
			out = append(out, float32(f))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported embedding type %T", raw)
	}
}
