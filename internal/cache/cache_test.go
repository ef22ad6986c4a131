package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(opts ...Option) (*Cache, *fakeClock) {
	clk := &fakeClock{now: time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)}
	return New(append([]Option{WithClock(clk.Now)}, opts...)...), clk
}

func TestSetThenGet(t *testing.T) {
	c, _ := newTestCache()
	c.Set("stock_data_AAPL", 42)

	v, ok := c.Get("stock_data_AAPL")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	// Read does not evict a fresh entry.
	_, ok = c.Get("stock_data_AAPL")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestGetMissing(t *testing.T) {
	c, _ := newTestCache()
	v, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestExpiryOnRead(t *testing.T) {
	c, clk := newTestCache()
	c.Set("k", "v")

	clk.Advance(DefaultTTL - time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	clk.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry must be stale once age reaches the TTL")
	assert.Equal(t, 0, c.Len(), "stale entry is removed on read")
}

func TestSetReplacesAndRestamps(t *testing.T) {
	c, clk := newTestCache(WithTTL(time.Minute))
	c.Set("k", 1)
	clk.Advance(50 * time.Second)
	c.Set("k", 2)
	clk.Advance(50 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSetWithTTL(t *testing.T) {
	c, clk := newTestCache()
	c.SetWithTTL("short", "x", 2*time.Minute)
	c.Set("long", "y")

	clk.Advance(3 * time.Minute)
	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			for j := 0; j < 200; j++ {
				c.Set(key, j)
				if v, ok := c.Get(key); ok {
					_, isInt := v.(int)
					assert.True(t, isInt)
				}
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}
