package repository

import (
	"context"
	"time"
)

// SessionRepository is a generic TTL key-value store for session tokens.
// Key namespacing belongs to the caller; the store is opaque.
type SessionRepository interface {
	// Set stores key -> value with an absolute TTL, overwriting any
	// previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value for key, or errs.ErrNotFound when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
