package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("amortization", []byte(`{"principal":300000}`))
	b := Key("amortization", []byte(`{"principal":300000}`))
	c := Key("amortization", []byte(`{"principal":300001}`))
	d := Key("csv", []byte(`{"principal":300000}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Regexp(t, `^amortization:[0-9a-f]+$`, a)
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, 0)

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	value := []byte("schedule")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'X' // the cache keeps its own copy

	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "schedule", string(got))
	assert.Equal(t, 1, m.Len())
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v")))

	now = now.Add(59 * time.Second)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok, "entry should survive until its ttl")

	now = now.Add(time.Second)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok, "entry should expire at its ttl")
	assert.Equal(t, 0, m.Len(), "expired entry should be evicted")
}

func TestMemorySweepsUnreadExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 0)
	m.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")))
	}
	assert.Equal(t, 100, m.Len())

	now = now.Add(time.Minute)
	require.NoError(t, m.Set(ctx, "fresh", []byte("v")))
	assert.Equal(t, 1, m.Len(), "expired entries should be swept without being read")

	_, ok := m.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestMemoryMaxEntries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, 3)

	for _, key := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.Set(ctx, key, []byte(key)))
	}
	assert.Equal(t, 3, m.Len())

	_, ok := m.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	for _, key := range []string{"b", "c", "d"} {
		_, ok := m.Get(ctx, key)
		assert.True(t, ok, key)
	}

	// Overwriting an existing key does not evict.
	require.NoError(t, m.Set(ctx, "b", []byte("b2")))
	assert.Equal(t, 3, m.Len())
	_, ok = m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryExpiredGetKeepsConcurrentSet(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 0)
	m.now = func() time.Time { return clock }

	require.NoError(t, m.Set(ctx, "k", []byte("stale")))
	clock = clock.Add(2 * time.Minute)

	// Store a fresh value between Get reading the stale entry and
	// taking the write lock.
	injected := false
	m.now = func() time.Time {
		if !injected {
			injected = true
			require.NoError(t, m.Set(ctx, "k", []byte("fresh")))
		}
		return clock
	}

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok, "the entry read by Get had expired")
	require.True(t, injected)

	got, ok := m.Get(ctx, "k")
	require.True(t, ok, "the fresh value must survive the expired read")
	assert.Equal(t, "fresh", string(got))
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour, 0)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = m.Set(ctx, key, []byte(key))
			if got, ok := m.Get(ctx, key); ok {
				assert.Equal(t, key, string(got))
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, m.Len())
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisUnavailableIsAMiss(t *testing.T) {
	// Nothing listens on port 1; reads must degrade to misses.
	r := NewRedis(nil, "127.0.0.1:1", time.Minute)
	t.Cleanup(func() { _ = r.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, r.Set(ctx, "k", []byte("v")))
}
