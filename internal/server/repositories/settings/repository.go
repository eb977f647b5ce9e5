// Package settings implements the shared settings area: named JSON documents
// that whole-process components read and rewrite. Three backends exist:
// PostgreSQL, a bbolt file and process memory.
package settings

import "context"

// UpdateFunc receives the current value (nil when the key is absent) and
// returns the value to store.
type UpdateFunc func(current []byte) ([]byte, error)

type Repository interface {
	// Get returns the stored value or (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Update performs an atomic read-modify-write of key. When fn fails
	// nothing is written and its error is returned.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}
