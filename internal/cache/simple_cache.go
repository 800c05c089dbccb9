package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// SimpleCache is a map-backed Cache. Expired entries are dropped lazily.
type SimpleCache[K comparable, V any] struct {
	// nil when the cache is not goroutine-safe
	mu *sync.RWMutex

	items map[K]entry[V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe guards every operation with a RWMutex.
	ConcurrencySafe bool
}

// NewSimpleCache constructs a new SimpleCache with the given options.
func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	return &SimpleCache[K, V]{
		mu:    mu,
		items: make(map[K]entry[V]),
	}
}

func (c *SimpleCache[K, V]) lockR() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *SimpleCache[K, V]) lockW() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// now is swapped out by tests.
var now = time.Now

func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	defer unlock()

	var zero V
	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		return zero, false
	}
	return e.value, true
}

func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	unlock := c.lockW()
	defer unlock()
	c.set(key, value, ttl)
}

func (c *SimpleCache[K, V]) set(key K, value V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

// GetOrLoad holds the write lock while load runs, so concurrent callers for
// the same key never load twice. Errors from load are returned and not cached.
func (c *SimpleCache[K, V]) GetOrLoad(key K, ttl time.Duration, load func() (V, error)) (V, error) {
	unlock := c.lockW()
	defer unlock()

	if e, ok := c.items[key]; ok && !e.expired(now()) {
		return e.value, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.set(key, v, ttl)
	return v, nil
}

func (c *SimpleCache[K, V]) Delete(key K) {
	unlock := c.lockW()
	defer unlock()
	delete(c.items, key)
}

func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	count := 0
	ts := now()
	for _, e := range c.items {
		if !e.expired(ts) {
			count++
		}
	}
	return count
}

func (c *SimpleCache[K, V]) Clear() {
	unlock := c.lockW()
	defer unlock()
	c.items = make(map[K]entry[V])
}

var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
