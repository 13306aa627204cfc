// README: KV backed by Redis strings; batches run inside MULTI/EXEC.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"taxibook/internal/types"
)

type RedisKV struct {
	redis *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{redis: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: redis get %s: %v", types.ErrPersistenceUnavailable, key, err)
	}
	return val, true, nil
}

func (s *RedisKV) Write(ctx context.Context, b Batch) error {
	if b.Empty() {
		return nil
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range b.Set {
			pipe.Set(ctx, k, v, 0)
		}
		if len(b.Delete) > 0 {
			pipe.Del(ctx, b.Delete...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: redis write: %v", types.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *RedisKV) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping: %v", types.ErrPersistenceUnavailable, err)
	}
	return nil
}
