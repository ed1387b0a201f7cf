package storage

import (
	"context"
	"time"

	"expensetracker/internal/cache"
)

type cachedValue struct {
	value string
	ok    bool
}

// Cached serves reads from an LRU cache in front of another Storage.
// Writes go to the backend first; the cache is only updated once they succeed.
// Absent keys are cached as well.
type Cached struct {
	next  Storage
	cache *cache.LRUCache[cachedValue]
}

// NewCached wraps next with an LRU cache of the given size and TTL.
func NewCached(next Storage, size int, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.NewLRUCache[cachedValue](size, ttl),
	}
}

func (c *Cached) GetItem(ctx context.Context, key string) (string, bool, error) {
	if v, hit := c.cache.Get(key); hit {
		return v.value, v.ok, nil
	}
	value, ok, err := c.next.GetItem(ctx, key)
	if err != nil {
		return "", false, err
	}
	c.cache.Set(key, cachedValue{value: value, ok: ok})
	return value, ok, nil
}

func (c *Cached) SetItem(ctx context.Context, key, value string) error {
	if err := c.next.SetItem(ctx, key, value); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, cachedValue{value: value, ok: true})
	return nil
}

func (c *Cached) RemoveItem(ctx context.Context, key string) error {
	if err := c.next.RemoveItem(ctx, key); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, cachedValue{ok: false})
	return nil
}

// Ping forwards to the wrapped backend.
func (c *Cached) Ping(ctx context.Context) error {
	return Ping(ctx, c.next)
}

// CleanExpired lets a cache.Manager sweep this cache.
func (c *Cached) CleanExpired() int {
	return c.cache.CleanExpired()
}

func (c *Cached) Stats() cache.Stats {
	return c.cache.Stats()
}

// Unwrap returns the backend behind the cache.
func (c *Cached) Unwrap() Storage {
	return c.next
}
