// Package cache provides a small in-memory TTL cache used by the store
// for hot lookups (users, sessions).
package cache

import (
	"context"
	"sync"
	"time"
)

// Config holds the cache configuration.
type Config struct {
	// DefaultTTL is applied to entries set without an explicit TTL.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are swept.
	CleanupInterval time.Duration
	// MaxItems bounds the cache; 0 means unbounded.
	MaxItems int
	// OnEviction is called for entries removed by the sweeper.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a concurrency-safe TTL cache.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]item
	config Config

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache and starts its cleanup goroutine.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}
	c := &Cache{
		items:  make(map[string]item),
		config: config,
		stop:   make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		if _, exists := c.items[key]; !exists {
			// Full and key is new: drop one arbitrary entry to make room.
			for k := range c.items {
				delete(c.items, k)
				break
			}
		}
	}
	c.items[key] = item{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes key from the cache.
func (c *Cache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

func (c *Cache) sweep(now time.Time) {
	type evicted struct {
		key   string
		value any
	}
	var dead []evicted

	c.mu.Lock()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			if c.config.OnEviction != nil {
				dead = append(dead, evicted{key: k, value: it.value})
			}
			delete(c.items, k)
		}
	}
	c.mu.Unlock()

	// Run eviction callbacks outside the lock.
	for _, e := range dead {
		c.config.OnEviction(e.key, e.value)
	}
}
