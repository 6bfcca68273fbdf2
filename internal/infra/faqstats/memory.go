package faqstats

import (
	"context"
	"sort"
	"sync"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
)

// MemoryStats keeps query counters in process memory.
type MemoryStats struct {
	mu       sync.Mutex
	counts   map[string]int64
	displays map[string]string
}

// NewMemoryStats constructs the counter store.
func NewMemoryStats() *MemoryStats {
	return &MemoryStats{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
	}
}

func (s *MemoryStats) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if display != "" {
		if _, ok := s.displays[canonical]; !ok {
			s.displays[canonical] = display
		}
	}
	return nil
}

func (s *MemoryStats) TopQueries(_ context.Context, limit int) ([]faq.TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]faq.TrendingQuery, 0, len(s.counts))
	for canonical, count := range s.counts {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		out = append(out, faq.TrendingQuery{Query: display, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ faq.QueryStats = (*MemoryStats)(nil)
