// Package cache provides translation caching implementations.
package cache

import "time"

const (
	// DefaultTTL is how long a cached translation stays valid.
	DefaultTTL = 60 * 24 * time.Hour
	// DefaultMaxItems bounds the number of entries held in memory.
	DefaultMaxItems = 500
)

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}

// EvictReason says why an entry left the cache.
type EvictReason string

const (
	// EvictCapacity means the entry was the oldest when the cache overflowed.
	EvictCapacity EvictReason = "capacity"
	// EvictExpired means the entry was found past its TTL during a lookup.
	EvictExpired EvictReason = "expired"
)
