package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimpleCache_SetGet_NoTTL(t *testing.T) {
	c := NewSimpleCache[string, int](Options{})
	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, 1, c.Len())
}

func TestSimpleCache_TTL_Expiry(t *testing.T) {
	c := NewSimpleCache[string, string](Options{ConcurrencySafe: true})

	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c.Set("k", "v", time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	base = base.Add(2 * time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestSimpleCache_Delete_Clear(t *testing.T) {
	c := NewSimpleCache[int, int](Options{ConcurrencySafe: true})
	c.Set(1, 10, 0)
	c.Set(2, 20, 0)
	c.Delete(1)
	_, ok := c.Get(1)
	require.False(t, ok)
	require.Equal(t, 1, c.Len())
	c.Clear()
	require.Equal(t, 0, c.Len())
}

func TestSimpleCache_GetOrLoad(t *testing.T) {
	c := NewSimpleCache[string, int](Options{})
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrLoad("answer", 0, load)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	v, err = c.GetOrLoad("answer", 0, load)
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 1, calls)
}

func TestSimpleCache_GetOrLoad_ErrorNotCached(t *testing.T) {
	c := NewSimpleCache[string, int](Options{})
	boom := errors.New("boom")

	_, err := c.GetOrLoad("k", 0, func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestSimpleCache_GetOrLoad_Concurrent(t *testing.T) {
	c := NewSimpleCache[string, int](Options{ConcurrencySafe: true})
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("shared", 0, func() (int, error) {
				calls.Add(1)
				return 7, nil
			})
			require.NoError(t, err)
			require.Equal(t, 7, v)
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, calls.Load())
}
