package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Hour})
	defer c.Close()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", "v")
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: 10 * time.Millisecond, CleanupInterval: time.Hour})
	defer c.Close()

	c.Set(ctx, "k", 1)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheCapacity(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Hour, MaxItems: 5})
	defer c.Close()

	for i := 0; i < 10; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), i)
	}

	kept := 0
	for i := 0; i < 10; i++ {
		if _, ok := c.Get(ctx, fmt.Sprintf("k%d", i)); ok {
			kept++
		}
	}
	assert.LessOrEqual(t, kept, 5)

	// The most recent entry always survives eviction.
	_, ok := c.Get(ctx, "k9")
	assert.True(t, ok)
}
