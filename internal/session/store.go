package session

import (
	"context"
	"time"
)

// Store maps session ids to per-session values.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	// Sweep removes every value not read or written for at least maxIdle and
	// hands each one to evict. It returns how many were removed.
	Sweep(ctx context.Context, maxIdle time.Duration, evict func(id string, v T)) int
	NewID() string
}
