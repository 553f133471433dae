package cache

import (
	"hash/maphash"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/seqmap/align"
)

const numShards = 64

// QueryAlignments is the stored result for one query. An empty Alignments
// slice records that the query did not align.
type QueryAlignments struct {
	Alignments []align.Alignment
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]QueryAlignments
}

// AlignmentCache maps query content to alignment results. Keys are spread
// over 64 shards so that writers of distinct keys rarely contend. Entries
// are never evicted.
type AlignmentCache struct {
	shards [numShards]shard
	seed   maphash.Seed
	size   atomic.Int64

	mu    sync.Mutex
	hits  int64
	skips int64
}

// NewAlignmentCache returns an empty cache.
func NewAlignmentCache() *AlignmentCache {
	c := &AlignmentCache{seed: maphash.MakeSeed()}
	for i := range c.shards {
		c.shards[i].entries = make(map[string]QueryAlignments)
	}
	return c
}

func (c *AlignmentCache) shard(key string) *shard {
	return &c.shards[maphash.String(c.seed, key)%numShards]
}

// Get returns the stored result for key.
func (c *AlignmentCache) Get(key string) (QueryAlignments, bool) {
	s := c.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.entries[key]
	return r, ok
}

// AddAlignment stores result under key. A second store for the same key
// replaces the first; both come from the same deterministic search.
func (c *AlignmentCache) AddAlignment(key string, result QueryAlignments) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		c.size.Add(1)
	}
	s.entries[key] = result
}

// AddHitsAndSkips accumulates the run counters.
func (c *AlignmentCache) AddHitsAndSkips(hits, skips int64) {
	if hits == 0 && skips == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits += hits
	c.skips += skips
}

// HitsAndSkips returns the run counters.
func (c *AlignmentCache) HitsAndSkips() (hits, skips int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.skips
}

// Usage returns the number of stored queries.
func (c *AlignmentCache) Usage() int {
	return int(c.size.Load())
}
