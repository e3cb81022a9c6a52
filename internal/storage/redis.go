package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "storefront"

// RedisKV keeps entries as plain redis strings. A zero TTL keeps them forever.
type RedisKV struct {
	Client *redis.Client
	TTL    time.Duration
}

func redisKey(namespace, key string) string {
	return redisPrefix + ":" + namespace + ":" + key
}

func (r *RedisKV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	v, err := r.Client.Get(ctx, redisKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *RedisKV) Set(ctx context.Context, namespace, key string, value []byte) error {
	return r.Client.Set(ctx, redisKey(namespace, key), value, r.TTL).Err()
}

func (r *RedisKV) Delete(ctx context.Context, namespace, key string) error {
	return r.Client.Del(ctx, redisKey(namespace, key)).Err()
}
