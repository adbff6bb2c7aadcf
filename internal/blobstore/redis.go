package blobstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blob:"

// Redis stores blobs under "blob:<key>:<userID>" with no expiry: transcripts
// and counters survive sessions until the user clears them.
type Redis struct {
	rdb *redis.Client
}

// NewRedis returns a Redis-backed Store.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func redisKey(userID, key string) string {
	return keyPrefix + key + ":" + userID
}

func (s *Redis) Get(ctx context.Context, userID, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, redisKey(userID, key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Redis) Set(ctx context.Context, userID, key string, value []byte) error {
	return s.rdb.Set(ctx, redisKey(userID, key), value, 0).Err()
}

func (s *Redis) Remove(ctx context.Context, userID, key string) error {
	return s.rdb.Del(ctx, redisKey(userID, key)).Err()
}
