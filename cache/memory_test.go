package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache()

	err := c.Set("key1", "value1")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Get should return true for existing key")
	}
	if val != "value1" {
		t.Errorf("Get returned %q, want %q", val, "value1")
	}

	val, ok = c.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing key")
	}
	if val != "" {
		t.Errorf("Get should return empty string for missing key, got %q", val)
	}
}

func TestInMemoryCache_Defaults(t *testing.T) {
	c := NewInMemoryCache()

	if c.ttl != 60*24*time.Hour {
		t.Errorf("default TTL = %v, want 60 days", c.ttl)
	}
	if c.maxItems != 500 {
		t.Errorf("default max items = %d, want 500", c.maxItems)
	}
}

func TestInMemoryCache_TTL(t *testing.T) {
	clock := newFakeClock()
	var evictions []EvictReason
	c := NewInMemoryCache(
		WithTTL(time.Hour),
		WithClock(clock),
		WithEvictionHook(func(r EvictReason) { evictions = append(evictions, r) }),
	)

	c.Set("key1", "value1")

	// Exactly TTL old is still valid
	clock.Advance(time.Hour)
	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Fatalf("entry at TTL boundary should be valid, got %q, %v", val, ok)
	}

	clock.Advance(time.Nanosecond)
	val, ok = c.Get("key1")
	if ok {
		t.Error("Value should be expired after TTL")
	}
	if val != "" {
		t.Errorf("Expired value should return empty string, got %q", val)
	}

	// Lazy expiry removes the entry
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on lookup, len = %d", c.Len())
	}
	if len(evictions) != 1 || evictions[0] != EvictExpired {
		t.Errorf("expected one expired eviction, got %v", evictions)
	}
}

func TestInMemoryCache_ExpiredNotRemovedWithoutLookup(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(WithTTL(time.Minute), WithClock(clock))

	c.Set("key1", "value1")
	clock.Advance(2 * time.Minute)

	if c.Len() != 1 {
		t.Errorf("expiry is lazy, len = %d, want 1", c.Len())
	}
	if entries := c.Entries(); len(entries) != 0 {
		t.Errorf("Entries should skip expired values, got %v", entries)
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(WithTTL(0), WithClock(clock))

	c.Set("key1", "value1")
	clock.Advance(10 * 365 * 24 * time.Hour)

	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Error("Value should be available with no TTL")
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	c := NewInMemoryCache()

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Key should exist")
	}
	if val != "value2" {
		t.Errorf("Value should be overwritten, got %q, want %q", val, "value2")
	}
	if c.Len() != 1 {
		t.Errorf("overwrite should not grow the cache, len = %d", c.Len())
	}
}

func TestInMemoryCache_OverwriteRefreshesTimestamp(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(WithTTL(time.Hour), WithClock(clock))

	c.Set("key1", "value1")
	clock.Advance(50 * time.Minute)
	c.Set("key1", "value2")
	clock.Advance(50 * time.Minute)

	if val, ok := c.Get("key1"); !ok || val != "value2" {
		t.Errorf("re-set entry should be fresh, got %q, %v", val, ok)
	}
}

func TestInMemoryCache_EvictsOldestInsertion(t *testing.T) {
	var evictions []EvictReason
	c := NewInMemoryCache(
		WithMaxItems(3),
		WithEvictionHook(func(r EvictReason) { evictions = append(evictions, r) }),
	)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	// Reading "a" must not protect it: eviction is by insertion, not access
	c.Get("a")

	c.Set("d", "4")

	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest insertion 'a' should have been evicted")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%q should still be cached", k)
		}
	}
	if len(evictions) != 1 || evictions[0] != EvictCapacity {
		t.Errorf("expected one capacity eviction, got %v", evictions)
	}
}

func TestInMemoryCache_ReinsertMovesToNewest(t *testing.T) {
	c := NewInMemoryCache(WithMaxItems(3))

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")
	c.Set("a", "1b") // "a" is now the newest insertion
	c.Set("d", "4")

	if _, ok := c.Get("b"); ok {
		t.Error("'b' should be evicted after 'a' was re-inserted")
	}
	if val, ok := c.Get("a"); !ok || val != "1b" {
		t.Errorf("'a' should survive with new value, got %q, %v", val, ok)
	}

	want := []string{"c", "a", "d"}
	got := c.Keys()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestInMemoryCache_BoundNeverExceeded(t *testing.T) {
	c := NewInMemoryCache()

	for i := 0; i < DefaultMaxItems*3; i++ {
		c.Set(fmt.Sprintf("key-%d", i), "v")
		if c.Len() > DefaultMaxItems {
			t.Fatalf("len %d exceeds bound after %d inserts", c.Len(), i+1)
		}
	}

	// The (MaxItems+1)th distinct insert evicts exactly the first
	c2 := NewInMemoryCache()
	for i := 0; i <= DefaultMaxItems; i++ {
		c2.Set(fmt.Sprintf("key-%d", i), "v")
	}
	if _, ok := c2.Get("key-0"); ok {
		t.Error("key-0 should be evicted")
	}
	if _, ok := c2.Get("key-1"); !ok {
		t.Error("key-1 should survive")
	}
}

func TestInMemoryCache_Len(t *testing.T) {
	c := NewInMemoryCache()

	if c.Len() != 0 {
		t.Errorf("Empty cache should have length 0, got %d", c.Len())
	}

	c.Set("key1", "value1")
	c.Set("key2", "value2")

	if c.Len() != 2 {
		t.Errorf("Cache should have length 2, got %d", c.Len())
	}
}

func TestInMemoryCache_Clear(t *testing.T) {
	c := NewInMemoryCache()

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Cleared cache should have length 0, got %d", c.Len())
	}

	_, ok := c.Get("key1")
	if ok {
		t.Error("Cleared cache should not contain any keys")
	}
	if len(c.Keys()) != 0 {
		t.Error("Cleared cache should have no insertion order")
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	var mu sync.Mutex
	evicted := 0
	c := NewInMemoryCache(
		WithMaxItems(50),
		WithEvictionHook(func(EvictReason) {
			mu.Lock()
			evicted++
			mu.Unlock()
		}),
	)
	var wg sync.WaitGroup

	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Set(fmt.Sprintf("key-%d", i), "value")
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Get(fmt.Sprintf("key-%d", i))
		}(i)
	}

	wg.Wait()

	// Every insert either survives or was evicted exactly once
	if c.Len() != 50 {
		t.Errorf("len = %d, want 50", c.Len())
	}
	if evicted != 150 {
		t.Errorf("evictions = %d, want 150", evicted)
	}
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
