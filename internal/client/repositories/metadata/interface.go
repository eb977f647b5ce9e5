// Package metadata keeps named client state blobs (the persisted session,
// the access token) in the local SQLite database.
package metadata

import "context"

// Repository stores opaque values by name. Get returns nil, nil for a
// missing name.
type Repository interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, names ...string) error
}
