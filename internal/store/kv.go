package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by KV.Get when the key has no value yet.
var ErrKeyNotFound = errors.New("key not found")

// KV is the minimal durable key/value surface the snapshot store needs:
// one blob in, one blob out. The production implementation is Redis;
// tests plug in an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// RedisKV adapts a redis client to the KV interface.
type RedisKV struct {
	rdb *redis.Client
}

// NewRedisKV creates a RedisKV.
func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}
