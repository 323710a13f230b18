package session

import (
	"context"
	"time"
)

// Backend is the key-value storage behind Store. Implementations must treat
// expired entries as absent.
type Backend interface {
	// Get returns the payload stored under id. found is false when the entry
	// does not exist or has expired.
	Get(ctx context.Context, id string) (data []byte, found bool, err error)

	// Set stores data under id, replacing any previous payload, and makes it
	// expire ttl from now.
	Set(ctx context.Context, id string, data []byte, ttl time.Duration) error

	// Delete removes id. Deleting a missing entry is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired purges expired entries and reports how many were removed.
	// Backends with native expiry return 0.
	DeleteExpired(ctx context.Context) (int64, error)
}
