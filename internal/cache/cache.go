// Package cache holds a small generic in-process cache with per-entry TTL.
//
// The sync engine uses it unlocked as its per-run manufacturer registry; the
// catalog uses it locked to memoize read results.
package cache

import "time"

// Cache defines a minimal key-value cache API with optional TTL per entry.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value. If ttl <= 0, the entry does not expire.
	Set(key K, value V, ttl time.Duration)

	// GetOrLoad returns the cached value or stores and returns the result of load.
	GetOrLoad(key K, ttl time.Duration, load func() (V, error)) (V, error)

	Delete(key K)

	// Len returns the number of non-expired items currently stored.
	Len() int

	Clear()
}
