// Package repo contains the durable key-value slots the trip store persists
// into. Each backend has its own file with a KVRepo implementation.
// No trip logic lives here, only bytes in, bytes out under a named key.
package repo

import "context"

// KVRepo is a durable map from key to opaque bytes.
// The store depends on this interface, not a concrete backend, which allows
// it to be unit-tested against the in-memory implementation.
type KVRepo interface {
	// Get returns the bytes stored under key.
	// Returns domain.ErrNotFound if nothing has been stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any resources owned by the repo.
	Close() error
}
