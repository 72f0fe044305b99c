package cache

import (
	"time"
)

// CacheService is the shared cache the fetch strategies coordinate
// through. Its main tenant is the rate-limit block window: when a
// source answers 429, every process backs off that chain until the
// recorded window lapses.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
