package domain

import (
	"context"
	"time"
)

// Fetcher defines the interface for talking to remote asset hosts
type Fetcher interface {
	// Head checks a URL without downloading the body. Any HTTP status is a
	// successful check; only transport failures return an error.
	Head(ctx context.Context, url string) (*Response, error)

	// Get downloads the content of a URL
	Get(ctx context.Context, url string) (*Response, error)

	// Close releases resources
	Close() error
}

// Cache defines the interface for remote content caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Close releases cache resources
	Close() error
}
