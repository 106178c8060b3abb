// Package cache is a short-TTL memoization layer in front of the
// library API reads. Entries expire by resource-specific TTLs; expired
// entries are kept around so a failed live fetch can still serve the
// last known payload.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Clock exists so tests can advance time deterministically.
type Clock func() time.Time

type entry struct {
	payload  any
	storedAt time.Time
}

type Cache struct {
	mu         sync.Mutex
	clock      Clock
	defaultTTL time.Duration
	ttls       map[string]time.Duration
	entries    map[string]entry
}

type Option func(*Cache)

func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithDefaultTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.defaultTTL = d
		}
	}
}

// WithTTL sets the TTL for one resource class. Keys like "paper-42"
// resolve their class from the prefix before the first hyphen, so a
// "paper" TTL covers every per-paper detail key.
func WithTTL(resource string, d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttls[resource] = d
		}
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		clock:      time.Now,
		defaultTTL: 30 * time.Second,
		ttls:       make(map[string]time.Duration),
		entries:    make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) ttlFor(key string) time.Duration {
	if ttl, ok := c.ttls[key]; ok {
		return ttl
	}
	if i := strings.IndexByte(key, '-'); i > 0 {
		if ttl, ok := c.ttls[key[:i]]; ok {
			return ttl
		}
	}
	return c.defaultTTL
}

// Get returns the payload for key while it is younger than its
// resource's TTL. Expired and invalidated entries report a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock().Sub(e.storedAt) >= c.ttlFor(key) {
		return nil, false
	}
	return e.payload, true
}

// GetStale returns the last known payload for key regardless of age.
// This is the fallback read used when a live fetch fails.
func (c *Cache) GetStale(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key with the current timestamp, replacing
// any prior entry.
func (c *Cache) Set(key string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{payload: payload, storedAt: c.clock()}
}

// Invalidate removes the given entries, or clears the whole cache when
// called with no keys. Every mutating library call paths through here.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
