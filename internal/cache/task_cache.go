package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyList = "tasks:list:"

// TaskCache caches each user's task snapshot in Redis. Filtering, search and
// sorting happen in memory downstream, so the snapshot is the only shared
// read path worth caching.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached snapshot for the user, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, userID string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, keyList+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the snapshot for the user.
func (c *TaskCache) SetList(ctx context.Context, userID string, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList+userID, b, c.ttl).Err()
}

// Invalidate drops the user's snapshot (cache invalidation on write).
func (c *TaskCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, keyList+userID).Err()
}
