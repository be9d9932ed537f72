// Package store persists named cache snapshots as opaque blobs.
package store

import (
	"context"
)

// Store is the persistence interface for cache snapshots. Blob content is
// opaque to the store; the geocoder chooses the names.
type Store interface {
	// Load returns the blob saved under name, or (nil, nil) if none exists.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save writes the blob under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, data []byte) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
