package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// Replicas sharing a ResultStore use it so only one of them learns a given corpus.
type DistributedLocker interface {
	// Lock acquires a lock for the given key (a corpus fingerprint).
	// It blocks until the lock is acquired or the context is canceled.
	// The returned UnlockFunc must be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
