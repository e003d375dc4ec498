// Package kvstore abstracts the small key-value needs of the portal (cart
// persistence, rate-limit counters) behind one interface so request handling
// can be tested against an in-memory store and deployed against Redis.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("key not found")

// Store is the injected key-value capability. A zero ttl means no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Increment adds one to a counter key and returns the new value. The
	// ttl applies from the counter's creation, giving fixed-window
	// semantics for rate limiting.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
