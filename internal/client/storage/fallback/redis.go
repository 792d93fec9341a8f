package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by RedisStore.
const KeyPrefix = "shopkeeper:"

// RedisStore mirrors flat keys into Redis. Quota applies per entry.
type RedisStore struct {
	rdb   *redis.Client
	quota int
}

var _ storage.KeyValueStore = (*RedisStore)(nil)

// NewRedisStore connects and pings addr. quota <= 0 selects DefaultQuota.
func NewRedisStore(ctx context.Context, opts *redis.Options, quota int) (*RedisStore, error) {
	if quota <= 0 {
		quota = DefaultQuota
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, quota: quota}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if size := len(key) + len(value); size > s.quota {
		return fmt.Errorf("%w: %d of %d bytes", common.ErrQuotaExceeded, size, s.quota)
	}
	if err := s.rdb.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
