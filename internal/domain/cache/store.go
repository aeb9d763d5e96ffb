package cache

import (
	"context"
	"time"
)

// Store is a durable key/value cache with per-entry TTLs. Values are opaque
// bytes; callers own serialization. Expiry is lazy: an expired entry is
// removed when a read encounters it, there is no background sweeper.
//
// Get returns (nil, false, nil) for a missing or expired key; an entry is
// live only while now is strictly before its deadline. Set always upserts,
// replacing both value and deadline.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
