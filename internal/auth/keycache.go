package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultKeyCacheTTL is how long a fetched superuser key is trusted.
const DefaultKeyCacheTTL = 60 * time.Second

// KeyCache is a single-slot, time-boxed cache of the superuser key.
//
// A fetch that finds no live key is remembered as absent for the same TTL so
// repeated misses do not hit the store. Store errors are never cached.
type KeyCache struct {
	source SuperuserKeySource
	ttl    time.Duration
	now    func() time.Time

	mu         sync.Mutex
	key        string
	found      bool
	fetchedAt  time.Time
	filled     bool
	generation uint64
}

// NewKeyCache creates a KeyCache reading through to source. A nil now uses time.Now.
func NewKeyCache(source SuperuserKeySource, ttl time.Duration, now func() time.Time) *KeyCache {
	if now == nil {
		now = time.Now
	}
	return &KeyCache{source: source, ttl: ttl, now: now}
}

// Get returns the live superuser key. ok is false when no live key exists.
func (c *KeyCache) Get(ctx context.Context) (string, bool, error) {
	c.mu.Lock()
	if c.filled && c.now().Sub(c.fetchedAt) < c.ttl {
		key, found := c.key, c.found
		c.mu.Unlock()
		return key, found, nil
	}
	gen := c.generation
	c.mu.Unlock()

	var key string
	found := true
	cred, err := c.source.GetLiveSuperuserKey(ctx)
	switch {
	case errors.Is(err, ErrNoLiveKey):
		found = false
	case err != nil:
		return "", false, fmt.Errorf("fetching superuser key: %w", err)
	default:
		key = cred.Key
	}

	c.mu.Lock()
	// An Invalidate during the fetch means the value read may already be stale.
	if c.generation == gen {
		c.key = key
		c.found = found
		c.fetchedAt = c.now()
		c.filled = true
	}
	c.mu.Unlock()

	return key, found, nil
}

// Invalidate drops the cached value so the next Get reads the store.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	c.key = ""
	c.found = false
	c.filled = false
	c.generation++
	c.mu.Unlock()
}
