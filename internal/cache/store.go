// Package cache provides the short-lived key/value store backing
// idempotent invoice creation.
package cache

import (
	"context"
	"time"
)

// Store is the cache port used by the usecase layer. Get reports whether the
// key was present; a false second return with a nil error is a miss.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// SetNX stores the value only when the key is absent and reports whether
	// the write happened.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}
