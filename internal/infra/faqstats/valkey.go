package faqstats

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
)

// ValkeyStats counts queries in a Valkey sorted set so trending survives
// restarts and is shared across instances.
type ValkeyStats struct {
	client valkey.Client
	prefix string
}

// NewValkeyStats constructs the counter store.
func NewValkeyStats(client valkey.Client, prefix string) *ValkeyStats {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStats{client: client, prefix: prefix}
}

// IncrementQuery bumps the counter for the canonical form and remembers the
// first display form seen for it.
func (s *ValkeyStats) IncrementQuery(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	if err := s.client.Do(ctx, s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(canonical).Build()).Error(); err != nil {
		return err
	}
	if display != "" {
		_ = s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(display).Nx().Build()).Error()
	}
	return nil
}

// TopQueries returns the most-asked queries, highest count first.
func (s *ValkeyStats) TopQueries(ctx context.Context, limit int) ([]faq.TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	members := make([]string, 0, len(arr))
	scores := make([]float64, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element.
			if member, err = tuple[0].ToString(); err != nil {
				if valkey.IsValkeyNil(err) {
					i++
					continue
				}
				return nil, err
			}
			if score, err = tuple[1].AsFloat64(); err != nil {
				return nil, err
			}
			i++
		} else {
			// RESP2 returns a flat alternating array.
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				if valkey.IsValkeyNil(err) {
					i += 2
					continue
				}
				return nil, err
			}
			if score, err = arr[i+1].AsFloat64(); err != nil {
				return nil, err
			}
			i += 2
		}
		members = append(members, member)
		scores = append(scores, score)
	}
	displays := s.fetchDisplays(ctx, members)
	out := make([]faq.TrendingQuery, 0, len(members))
	for i, member := range members {
		display := member
		if d, ok := displays[member]; ok {
			display = d
		}
		out = append(out, faq.TrendingQuery{Query: display, Count: int64(scores[i])})
	}
	return out, nil
}

// fetchDisplays resolves the stored display forms with a single MGET.
// Missing or unreadable entries fall back to the canonical form.
func (s *ValkeyStats) fetchDisplays(ctx context.Context, canonicals []string) map[string]string {
	if len(canonicals) == 0 {
		return nil
	}
	keys := make([]string, len(canonicals))
	for i, canonical := range canonicals {
		keys[i] = s.displayKey(canonical)
	}
	displays := make(map[string]string, len(canonicals))
	arr, err := s.client.Do(ctx, s.client.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return displays
	}
	for i, msg := range arr {
		if i >= len(canonicals) {
			break
		}
		if display, strErr := msg.ToString(); strErr == nil && display != "" {
			displays[canonicals[i]] = display
		}
	}
	return displays
}

func (s *ValkeyStats) trendingKey() string {
	return fmt.Sprintf("%s:trending", s.prefix)
}

func (s *ValkeyStats) displayKey(canonical string) string {
	return fmt.Sprintf("%s:display:%s", s.prefix, canonical)
}

var _ faq.QueryStats = (*ValkeyStats)(nil)
