package steam

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultContextTTL is the freshness window for a cached aggregate.
	DefaultContextTTL = 5 * time.Minute
	// DefaultCacheCapacity bounds the number of identities kept resident.
	DefaultCacheCapacity = 1024
)

// ContextFetcher produces a fresh aggregate for an identity. *Client
// implements it.
type ContextFetcher interface {
	FetchContext(ctx context.Context, steamID string) (*AggregatedContext, error)
}

type cacheEntry struct {
	steamID    string
	aggregate  *AggregatedContext
	capturedAt time.Time
	element    *list.Element
}

// ContextCache serves the last successful aggregate per identity within a
// freshness window, refreshing through the fetcher on expiry. Concurrent
// refreshes for the same identity are collapsed into a single in-flight
// fetch. Capacity is bounded with least-recently-used eviction.
type ContextCache struct {
	fetcher  ContextFetcher
	ttl      time.Duration
	capacity int

	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   *list.List

	group singleflight.Group

	// now is replaceable in tests.
	now func() time.Time
}

// NewContextCache creates a cache over fetcher with the default TTL and
// capacity.
func NewContextCache(fetcher ContextFetcher) *ContextCache {
	return &ContextCache{
		fetcher:  fetcher,
		ttl:      DefaultContextTTL,
		capacity: DefaultCacheCapacity,
		entries:  make(map[string]*cacheEntry),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns the aggregate for steamID, serving the cached copy while it
// is fresh. On a miss or stale entry it fetches, and only a successful
// fetch overwrites the entry; a failed refresh returns nil and leaves any
// prior entry in place. An empty steamID returns nil.
func (c *ContextCache) Get(ctx context.Context, steamID string) *AggregatedContext {
	if steamID == "" {
		return nil
	}

	c.mu.Lock()
	if e, ok := c.entries[steamID]; ok && c.now().Sub(e.capturedAt) < c.ttl {
		c.order.MoveToFront(e.element)
		aggregate := e.aggregate
		c.mu.Unlock()
		return aggregate
	}
	c.mu.Unlock()

	// Single-flight: concurrent misses for the same identity share one
	// fetch instead of each issuing their own. The fetch is detached from
	// the triggering request's cancellation: once issued it runs to
	// completion, so a disconnecting caller cannot abort a fetch other
	// waiters share.
	fetchCtx := context.WithoutCancel(ctx)
	result, err, _ := c.group.Do(steamID, func() (any, error) {
		aggregate, err := c.fetcher.FetchContext(fetchCtx, steamID)
		if err != nil || aggregate == nil {
			return nil, err
		}
		c.store(steamID, aggregate)
		return aggregate, nil
	})
	if err != nil || result == nil {
		return nil
	}
	return result.(*AggregatedContext)
}

func (c *ContextCache) store(steamID string, aggregate *AggregatedContext) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[steamID]; ok {
		e.aggregate = aggregate
		e.capturedAt = c.now()
		c.order.MoveToFront(e.element)
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.steamID)
	}

	e := &cacheEntry{
		steamID:    steamID,
		aggregate:  aggregate,
		capturedAt: c.now(),
	}
	e.element = c.order.PushFront(e)
	c.entries[steamID] = e
}

// Size returns the number of resident entries.
func (c *ContextCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
