// Package admission provides an LRU cache that filters new entries by access
// frequency.
//
// Every lookup and insert records one access for the key in a
// quickset.Set. When the cache is full, an incoming key is admitted only if
// it has been seen at least as often as the entry it would evict (the LRU
// victim). One-off keys therefore cannot flush a working set of repeatedly
// used keys, which is the scan resistance a plain LRU lacks.
//
// Counts are aged by clearing the frequency set after a fixed number of
// recorded accesses, and also whenever a key reaches the count ceiling.
//
// Keys are integers in [0, Span]. Keys outside the domain are never cached.
package admission

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"qset.lopezb.com/internal/quickset"
)

var (
	// ErrInvalidSize is returned by New for a non-positive capacity.
	ErrInvalidSize = errors.New("admission: size must be positive")
)

// Config holds the cache parameters. Zero fields take defaults.
type Config struct {
	Size       int // resident entries
	Span       int // largest key; see quickset.Config
	Hot        int // keys tracked by Hot, at most quickset.MaxSlots
	High       int // per-key count ceiling
	ResetAfter int // recorded accesses between agings
}

const (
	defaultHigh       = 255
	defaultResetRatio = 10
)

// Stats counts cache outcomes since construction.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Admitted uint64
	Rejected uint64
	Evicted  uint64
	Agings   uint64
}

// Cache is a fixed-size LRU cache of V keyed by int with frequency-based
// admission. It is safe for concurrent use.
type Cache[V any] struct {
	mu sync.Mutex

	lru  *lru.Cache[int, V]
	freq *quickset.Set

	size, span int
	high       uint32

	incrs, resetAt int
	stats          Stats
}

// New creates a Cache.
func New[V any](cfg Config) (*Cache[V], error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, cfg.Size)
	}
	if cfg.Span == 0 {
		cfg.Span = quickset.DefaultSpan
	}
	if cfg.Hot == 0 {
		cfg.Hot = quickset.RecommendedSlots
	}
	if cfg.High <= 0 {
		cfg.High = defaultHigh
	}
	if cfg.ResetAfter <= 0 {
		cfg.ResetAfter = cfg.Size * defaultResetRatio
	}

	freq, err := quickset.New(quickset.Config{
		Mode: quickset.WinSum,
		Span: cfg.Span,
		Slot: cfg.Hot,
		High: cfg.High,
		Freq: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("admission: frequency set: %w", err)
	}

	c := &Cache[V]{
		freq:    freq,
		size:    cfg.Size,
		span:    freq.Config().Span,
		high:    uint32(cfg.High),
		resetAt: cfg.ResetAfter,
	}

	// The callback runs inside Add while c.mu is held.
	c.lru, err = lru.NewWithEvict(cfg.Size, func(int, V) {
		c.stats.Evicted++
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Get returns the cached value for key and records the access.
func (c *Cache[V]) Get(key int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record(key)
	v, ok := c.lru.Get(key)
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return v, ok
}

// Peek returns the cached value for key without recording an access or
// refreshing its recency.
func (c *Cache[V]) Peek(key int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Peek(key)
}

// Add records an access to key and stores value if the key is admitted.
// Updating a resident key always succeeds. It reports whether the value is
// now cached.
func (c *Cache[V]) Add(key int, value V) bool {
	if key < 0 || key > c.span {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.record(key)

	if c.lru.Contains(key) || c.lru.Len() < c.size {
		c.lru.Add(key, value)
		return true
	}

	victim, _, ok := c.lru.GetOldest()
	if ok && c.freq.Get(key) < c.freq.Get(victim) {
		c.stats.Rejected++
		return false
	}

	c.lru.Add(key, value)
	c.stats.Admitted++
	return true
}

// Remove drops key from the cache. Its access count is kept.
func (c *Cache[V]) Remove(key int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Remove(key)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// Estimate returns the access count recorded for key since the last aging.
func (c *Cache[V]) Estimate(key int) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.freq.Get(key)
}

// Hot returns up to k of the most frequently accessed keys since the last
// aging, most frequent first. k <= 0 returns all tracked keys.
func (c *Cache[V]) Hot(k int) []quickset.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.freq.Top(k)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// Purge empties the cache and forgets all access counts.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
	c.age()
}

func (c *Cache[V]) record(key int) {
	if c.freq.Get(key) >= c.high {
		c.age()
	}
	c.freq.Incr(key)

	c.incrs++
	if c.incrs >= c.resetAt {
		c.age()
	}
}

func (c *Cache[V]) age() {
	c.freq.ClearRank()
	c.incrs = 0
	c.stats.Agings++
}
