package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// VerdictTally counts final verdicts in a Redis ZSET so the ranking of
// verdicts survives without the result archive
type VerdictTally interface {
	Increment(ctx context.Context, verdict string) error
	Ranked(ctx context.Context) ([]TallyEntry, error)
}

// TallyEntry is one verdict with its count and rank (1-indexed)
type TallyEntry struct {
	Verdict string `json:"verdict"`
	Count   int64  `json:"count"`
	Rank    int    `json:"rank"`
}

const tallyKey = "verdicts:tally"

type redisTally struct {
	client redis.Cmdable
}

// NewVerdictTally creates a Redis backed tally
func NewVerdictTally(client redis.Cmdable) VerdictTally {
	return &redisTally{client: client}
}

func (c *redisTally) Increment(ctx context.Context, verdict string) error {
	return c.client.ZIncrBy(ctx, tallyKey, 1, verdict).Err()
}

func (c *redisTally) Ranked(ctx context.Context) ([]TallyEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, tallyKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]TallyEntry, len(results))
	for i, z := range results {
		entries[i] = TallyEntry{
			Verdict: z.Member.(string),
			Count:   int64(z.Score),
			Rank:    i + 1,
		}
	}
	return entries, nil
}

type memoryTally struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryTally creates a process-local tally
func NewMemoryTally() VerdictTally {
	return &memoryTally{counts: make(map[string]int64)}
}

func (c *memoryTally) Increment(_ context.Context, verdict string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[verdict]++
	return nil
}

func (c *memoryTally) Ranked(_ context.Context) ([]TallyEntry, error) {
	c.mu.Lock()
	entries := make([]TallyEntry, 0, len(c.counts))
	for v, n := range c.counts {
		entries = append(entries, TallyEntry{Verdict: v, Count: n})
	}
	c.mu.Unlock()

	// ZREVRANGE orders ties by member descending
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Verdict > entries[j].Verdict
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
