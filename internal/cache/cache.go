// Package cache provides the response cache used by read endpoints.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for all cache implementations
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional TTL (0 = default TTL)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache is accessible
	Ping(ctx context.Context) error

	// Close closes the cache connection
	Close() error
}

// Config holds common cache configuration
type Config struct {
	// Default TTL for cache entries (0 = no expiration)
	DefaultTTL time.Duration

	// Key prefix for all cache keys
	Prefix string
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultTTL: 5 * time.Minute,
		Prefix:     "cheminv:",
	}
}

// CacheError represents a cache operation error
type CacheError struct {
	Op  string // Operation that failed
	Key string // Cache key involved
	Err error  // Underlying error
}

func (e *CacheError) Error() string {
	return "cache " + e.Op + " failed: " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// ErrCacheNotFound is returned on a cache miss
var ErrCacheNotFound = &CacheError{Op: "get", Err: errKeyNotFound}

var errKeyNotFound = customError("key not found")

type customError string

func (e customError) Error() string {
	return string(e)
}
