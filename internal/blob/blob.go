// Package blob provides object storage for bottle images.
package blob

import (
	"context"
	"io"
)

// Store is the object-storage surface the handlers depend on
type Store interface {
	// Put writes an object under key, replacing any existing object
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// PublicURL resolves the public URL for an object key
	PublicURL(key string) string

	// Ping verifies the backing bucket is reachable
	Ping(ctx context.Context) error
}
