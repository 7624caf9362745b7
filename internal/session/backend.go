package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that no session exists under the requested key.
var ErrNotFound = errors.New("session: not found")

// Backend is a key-value store with per-key expiry. Implementations must be
// safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
