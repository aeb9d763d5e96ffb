package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	qb "github.com/matchwatch/matchwatch/internal/platform/querybuilder"
)

// CacheRepository is a durable TTL cache. Expiry is lazy: reads drop rows
// whose deadline has arrived instead of relying on a background sweeper. A
// row is live only while now is strictly before expires_at.
type CacheRepository struct {
	db *sqlx.DB
}

func NewCacheRepository(db *sqlx.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("cache key is required")
	}

	query, args, err := qb.Select("*").
		From("cache").
		Where(qb.Eq("key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get cache entry query: %w", err)
	}

	var row cacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cache entry key=%s: %w", key, err)
	}

	now := time.Now().UTC()
	if !row.ExpiresAt.After(now) {
		// Cleanup is best effort, a failed delete leaves the row for the
		// next read. The expires_at guard keeps concurrent refreshes safe.
		_ = r.deleteExpired(ctx, key, now)
		return nil, false, nil
	}

	return row.Value, true, nil
}

func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}

	model := cacheInsertModel{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}

	query, args, err := qb.InsertModel("cache", model, `ON CONFLICT (key)
DO UPDATE SET
    value = EXCLUDED.value,
    expires_at = EXCLUDED.expires_at`)
	if err != nil {
		return fmt.Errorf("build upsert cache entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cache entry key=%s: %w", key, err)
	}

	return nil
}

func (r *CacheRepository) deleteExpired(ctx context.Context, key string, now time.Time) error {
	query, args, err := qb.DeleteFrom("cache").
		Where(qb.Eq("key", key), qb.Lte("expires_at", now)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete expired cache entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete expired cache entry key=%s: %w", key, err)
	}

	return nil
}
