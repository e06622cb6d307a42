// Package blob defines the content store abstraction holding node payloads.
package blob

import "context"

// Store persists opaque binary payloads under generated names. Paths are
// unique per write and never reused; metadata referencing them is the
// caller's concern.
type Store interface {
	// Write persists data under a freshly generated opaque name and
	// returns its path.
	Write(ctx context.Context, data []byte) (string, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
