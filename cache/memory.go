package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/ZaguanLabs/ltproxy"
)

// cacheEntry holds a cached value with its insertion time.
type cacheEntry struct {
	key      string
	value    string
	storedAt time.Time
}

// InMemoryCache is a bounded, thread-safe in-memory cache with TTL support.
//
// Entries expire lazily: an entry older than the TTL is removed by the Get
// that finds it. When a Set pushes the size past the bound, the entry
// inserted earliest is evicted. Reads do not change eviction order; an
// overwrite counts as a fresh insertion.
type InMemoryCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front is oldest insertion
	ttl      time.Duration
	maxItems int
	clock    ltproxy.Clock
	onEvict  func(EvictReason)
}

// Option configures an InMemoryCache.
type Option func(*InMemoryCache)

// WithTTL sets the entry lifetime. Zero or negative disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *InMemoryCache) {
		c.ttl = ttl
	}
}

// WithMaxItems sets the size bound. Zero or negative keeps the default.
func WithMaxItems(n int) Option {
	return func(c *InMemoryCache) {
		if n > 0 {
			c.maxItems = n
		}
	}
}

// WithClock sets the time source.
func WithClock(clock ltproxy.Clock) Option {
	return func(c *InMemoryCache) {
		c.clock = clock
	}
}

// WithEvictionHook registers fn to be called, under the cache lock, for every
// evicted entry. fn must not call back into the cache.
func WithEvictionHook(fn func(EvictReason)) Option {
	return func(c *InMemoryCache) {
		c.onEvict = fn
	}
}

// NewInMemoryCache creates a cache holding at most DefaultMaxItems entries
// for DefaultTTL, unless overridden by opts.
func NewInMemoryCache(opts ...Option) *InMemoryCache {
	c := &InMemoryCache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		ttl:      DefaultTTL,
		maxItems: DefaultMaxItems,
		clock:    ltproxy.SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired, empty string and false otherwise.
// An entry exactly TTL old is still valid.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}

	entry := elem.Value.(*cacheEntry)
	if c.expired(entry, c.clock.Now()) {
		c.remove(elem, EvictExpired)
		return "", false
	}

	return entry.value, true
}

// Set stores a value in the cache, evicting the oldest insertion if the
// bound is exceeded.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}

	c.items[key] = c.order.PushBack(&cacheEntry{
		key:      key,
		value:    value,
		storedAt: c.clock.Now(),
	})

	if len(c.items) > c.maxItems {
		c.remove(c.order.Front(), EvictCapacity)
	}
	return nil
}

// Len returns the number of entries in the cache (including expired ones
// not yet looked up).
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Entries returns all non-expired entries as key-value pairs.
// This is used for cache export.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]string, len(c.items))
	now := c.clock.Now()

	for key, elem := range c.items {
		entry := elem.Value.(*cacheEntry)
		if c.expired(entry, now) {
			continue
		}
		result[key] = entry.value
	}

	return result
}

// Keys returns the keys in insertion order, oldest first.
func (c *InMemoryCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*cacheEntry).key)
	}
	return keys
}

// expired must be called with the lock held.
func (c *InMemoryCache) expired(entry *cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(entry.storedAt) > c.ttl
}

// remove must be called with the lock held.
func (c *InMemoryCache) remove(elem *list.Element, reason EvictReason) {
	entry := c.order.Remove(elem).(*cacheEntry)
	delete(c.items, entry.key)
	if c.onEvict != nil {
		c.onEvict(reason)
	}
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
