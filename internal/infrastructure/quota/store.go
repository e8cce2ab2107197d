// Package quota provides atomic counter primitives over a shared
// key-value store with expiry. The primitives carry no business meaning;
// admission policies are layered on top of them.
package quota

import (
	"context"
	"time"
)

// Store is the counter-store contract. All operations are scoped by an
// opaque key and must be atomic across concurrent callers from any process;
// Incr in particular must not be a read-modify-write race.
type Store interface {
	// Incr atomically adds 1 to the counter at key, creating it at 0 first
	// if absent, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// IncrBy atomically adds n and returns the new value.
	IncrBy(ctx context.Context, key string, n int64) (int64, error)

	// Decr atomically subtracts 1. Callers must pair every Decr with a
	// prior Incr on the same key; unpaired calls drive the counter negative.
	Decr(ctx context.Context, key string) error

	// Get returns the current value, 0 if the key is absent.
	Get(ctx context.Context, key string) (int64, error)

	// Set overwrites the value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value int64, ttl time.Duration) error

	// Expire sets or refreshes an expiry without changing the value.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
