// Package cache provides the keyed resolution cache shared by the lookup
// layers (federation, directory, ticker data).
//
// It is an explicitly constructed instance that callers inject into the
// components that need it, so its lifetime is the caller's scope; there is
// no package-level singleton and no TTL eviction. Entries live until the
// cache itself is dropped.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ResolutionCache caches successfully resolved values per key and collapses
// concurrent resolutions of the same key into a single fetch. Failed fetches
// are not retained: the next Resolve for that key fetches again.
type ResolutionCache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
	pending map[K]int
	flight  singleflight.Group
}

func NewResolutionCache[K comparable, V any]() *ResolutionCache[K, V] {
	return &ResolutionCache[K, V]{
		entries: map[K]V{},
		pending: map[K]int{},
	}
}

// Get returns the cached value for key. The second return distinguishes
// "known" from "not yet known"; use Pending to tell "not yet known" apart
// from "nobody ever asked".
func (c *ResolutionCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Pending reports whether a fetch for key is currently in flight.
func (c *ResolutionCache[K, V]) Pending(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[key] > 0
}

// Resolve returns the cached value for key, or runs fetch exactly once no
// matter how many goroutines ask concurrently. Every concurrent caller gets
// the same value or the same error. Successful values are stored; errors
// are not.
func (c *ResolutionCache[K, V]) Resolve(
	ctx context.Context,
	key K,
	fetch func(ctx context.Context) (V, error),
) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	flightKey := fmt.Sprintf("%v", key)

	c.mu.Lock()
	c.pending[key]++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.pending[key]--
		if c.pending[key] <= 0 {
			delete(c.pending, key)
		}
		c.mu.Unlock()
	}()

	v, err, _ := c.flight.Do(flightKey, func() (interface{}, error) {
		// Another flight may have stored the value between our Get and Do.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Put stores a value directly, replacing any previous entry for key.
func (c *ResolutionCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Forget drops the entry for key so the next Resolve fetches again.
func (c *ResolutionCache[K, V]) Forget(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of resolved entries.
func (c *ResolutionCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
