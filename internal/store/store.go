package store

import "context"

// KV persists small string values by key. Implementations are safe for
// concurrent use.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
