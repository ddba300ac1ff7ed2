package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glabrego/reviews-feed/internal/assets"
)

// RedisStore keeps assets in redis. A zero ttl stores them without expiry.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func assetKey(key string) string {
	return fmt.Sprintf("reviews:asset:%s", key)
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, assetKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, assets.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load asset %q: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.rdb.Set(ctx, assetKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save asset %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Stats counts stored assets and their total size in bytes.
func (s *RedisStore) Stats(ctx context.Context) (int, int64, error) {
	var count int
	var size int64
	iter := s.rdb.Scan(ctx, 0, assetKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		n, err := s.rdb.StrLen(ctx, iter.Val()).Result()
		if err != nil {
			return 0, 0, fmt.Errorf("measure asset %q: %w", iter.Val(), err)
		}
		count++
		size += n
	}
	if err := iter.Err(); err != nil {
		return 0, 0, fmt.Errorf("scan assets: %w", err)
	}
	return count, size, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
