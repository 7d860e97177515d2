package ltproxy

import (
	"crypto/sha256"
	"encoding/hex"
)

// keySeparator never appears in language codes.
const keySeparator = "|"

// CacheKey derives the cache key for a (source, target, text) triple.
// Text is used verbatim; two requests differing only in whitespace are
// distinct.
func CacheKey(sourceLang, targetLang, text string) string {
	return sourceLang + keySeparator + targetLang + keySeparator + text
}

// HashKey returns the SHA-256 hex digest of a cache key. Stores that cannot
// hold arbitrarily long keys use it instead of the raw key.
func HashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
