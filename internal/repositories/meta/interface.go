// Package meta is a small key/value store for engine bookkeeping, such
// as the global last-sync timestamp.
package meta

import "context"

const KeyLastSyncTime = "last_sync_time"

// Repository is a byte-valued key/value store. Get returns nil (no
// error) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
