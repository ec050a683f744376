package steam

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher returns canned aggregates and counts fetches.
type countingFetcher struct {
	fetches atomic.Int32
	fail    atomic.Bool

	// block, when set, holds every fetch until released.
	block chan struct{}
}

func (f *countingFetcher) FetchContext(_ context.Context, steamID string) (*AggregatedContext, error) {
	f.fetches.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.fail.Load() {
		return nil, fmt.Errorf("network down")
	}
	return &AggregatedContext{Profile: &PlayerSummary{SteamID: steamID}}, nil
}

func TestContextCache_ServesFreshEntry(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewContextCache(fetcher)

	first := cache.Get(context.Background(), "abc")
	require.NotNil(t, first)
	assert.Equal(t, int32(1), fetcher.fetches.Load())

	// Within the TTL the same aggregate is returned with no new fetch.
	second := cache.Get(context.Background(), "abc")
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), fetcher.fetches.Load())
}

func TestContextCache_RefreshAfterTTL(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewContextCache(fetcher)

	now := time.Now()
	cache.now = func() time.Time { return now }

	first := cache.Get(context.Background(), "abc")
	require.NotNil(t, first)

	now = now.Add(DefaultContextTTL + time.Second)
	second := cache.Get(context.Background(), "abc")
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), fetcher.fetches.Load())
}

func TestContextCache_FailedRefreshReturnsNil(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewContextCache(fetcher)

	now := time.Now()
	cache.now = func() time.Time { return now }

	require.NotNil(t, cache.Get(context.Background(), "abc"))

	now = now.Add(DefaultContextTTL + time.Second)
	fetcher.fail.Store(true)
	assert.Nil(t, cache.Get(context.Background(), "abc"))
	// The prior entry is superseded only by a successful refresh.
	assert.Equal(t, 1, cache.Size())

	fetcher.fail.Store(false)
	assert.NotNil(t, cache.Get(context.Background(), "abc"))
}

func TestContextCache_SingleFlight(t *testing.T) {
	fetcher := &countingFetcher{block: make(chan struct{})}
	cache := NewContextCache(fetcher)

	const waiters = 8
	var wg sync.WaitGroup
	results := make([]*AggregatedContext, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(context.Background(), "abc")
		}(i)
	}

	// Give the waiters time to pile onto the in-flight fetch, then
	// release it.
	time.Sleep(50 * time.Millisecond)
	close(fetcher.block)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.fetches.Load())
	for _, result := range results {
		assert.NotNil(t, result)
	}
}

func TestContextCache_EmptyIdentity(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewContextCache(fetcher)

	assert.Nil(t, cache.Get(context.Background(), ""))
	assert.Zero(t, fetcher.fetches.Load())
}

func TestContextCache_CapacityEviction(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewContextCache(fetcher)
	cache.capacity = 2

	cache.Get(context.Background(), "a")
	cache.Get(context.Background(), "b")
	cache.Get(context.Background(), "c")

	assert.Equal(t, 2, cache.Size())
}

// cancelAwareFetcher aborts on context cancellation the way the real
// client's HTTP requests do.
type cancelAwareFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (f *cancelAwareFetcher) FetchContext(ctx context.Context, steamID string) (*AggregatedContext, error) {
	close(f.started)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.release:
		return &AggregatedContext{Profile: &PlayerSummary{SteamID: steamID}}, nil
	}
}

func TestContextCache_FetchSurvivesCallerCancellation(t *testing.T) {
	fetcher := &cancelAwareFetcher{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	cache := NewContextCache(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *AggregatedContext, 1)
	go func() {
		done <- cache.Get(ctx, "abc")
	}()

	// Cancel the triggering caller while the fetch is in flight, then let
	// the fetch finish.
	<-fetcher.started
	cancel()
	close(fetcher.release)

	result := <-done
	require.NotNil(t, result)
	assert.Equal(t, "abc", result.Profile.SteamID)
	assert.Equal(t, 1, cache.Size())
}

func TestContextCache_NilAggregateNotCached(t *testing.T) {
	// A nil client reports every fetch as a configuration no-op.
	cache := NewContextCache((*Client)(nil))

	assert.Nil(t, cache.Get(context.Background(), "abc"))
	assert.Zero(t, cache.Size())
}
