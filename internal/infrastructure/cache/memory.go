// Package cache provides the in-memory, best-effort result caches used by
// the search pipeline. Entries are keyed by normalized query string and are
// never authoritative: an expired or missing entry is always resolvable by
// re-querying the sources.
package cache

import (
	"sync"
	"time"

	"github.com/foodscan/backend/internal/domain"
)

type resultItem struct {
	value     []domain.Product
	timestamp time.Time
}

// ResultCache is a thread-safe TTL cache for resolved product lists.
// Construct one per consumer and Dispose it when done; there are no
// package-level singletons.
type ResultCache struct {
	mu        sync.RWMutex
	data      map[string]resultItem
	ttl       time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// NewResultCache creates a cache whose entries expire after ttl. When
// sweepInterval is positive a background sweep evicts expired entries to
// bound memory.
func NewResultCache(ttl, sweepInterval time.Duration) *ResultCache {
	c := &ResultCache{
		data: make(map[string]resultItem),
		ttl:  ttl,
		done: make(chan struct{}),
	}
	if sweepInterval > 0 {
		go c.sweepLoop(sweepInterval)
	}
	return c
}

// Get returns the cached value for key if present and fresh.
func (c *ResultCache) Get(key string) ([]domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if time.Since(item.timestamp) > c.ttl {
		return nil, false
	}
	return item.value, true
}

// Set stores value under key. Empty slices are stored too, so repeated
// identical failing queries short-circuit as well.
func (c *ResultCache) Set(key string, value []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = resultItem{value: value, timestamp: time.Now()}
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]resultItem)
}

// Size returns the current number of entries, expired or not.
func (c *ResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Dispose stops the background sweep. Safe to call more than once.
func (c *ResultCache) Dispose() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *ResultCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ResultCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.data {
		if now.Sub(item.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}

// ResponseCache is a byte-level memo for raw upstream responses, keyed by
// request URL. It satisfies the off package's ResponseCache interface.
type ResponseCache struct {
	mu   sync.RWMutex
	data map[string]responseItem
	ttl  time.Duration
}

type responseItem struct {
	body      []byte
	timestamp time.Time
}

// NewResponseCache creates a response memo whose entries expire after ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		data: make(map[string]responseItem),
		ttl:  ttl,
	}
}

// Get returns the memoized body for key if present and fresh. Expired
// entries are dropped on read; there is no background sweep here because
// the key space (distinct request URLs) is small.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(item.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.body, true
}

// Set memoizes body under key.
func (c *ResponseCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = responseItem{body: body, timestamp: time.Now()}
}
