package faqstore

import (
	"context"
	"sync"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
)

// MemoryStore is an in-process store used when no Postgres DSN is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records []faq.Record
	seen    map[string]struct{}
	nextID  int64
}

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{}), nextID: 1}
}

// ListAll returns all records in insertion order.
func (s *MemoryStore) ListAll(_ context.Context) ([]faq.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]faq.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Insert appends records whose normalized question is new, returning only
// those that were stored.
func (s *MemoryStore) Insert(_ context.Context, records []faq.Record) ([]faq.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var inserted []faq.Record
	for _, rec := range records {
		key := faq.Normalize(rec.Question)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		rec.ID = s.nextID
		s.nextID++
		s.records = append(s.records, rec)
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

var _ faq.Store = (*MemoryStore)(nil)
