package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisTimeout = 5 * time.Second

// RedisKV stores entries as plain Redis strings under a common prefix,
// so several kiosks can share one cart per account.
type RedisKV struct {
	rdb    *redis.Client
	prefix string
	quota  int
}

// NewRedisKV connects to addr and pings it. quota limits the size of a
// single value; <= 0 falls back to DefaultQuota.
func NewRedisKV(addr, prefix string, quota int) (*RedisKV, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &RedisKV{rdb: rdb, prefix: prefix, quota: quota}, nil
}

func (r *RedisKV) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisKV) Set(key, value string) error {
	if len(key)+len(value) > r.quota {
		return ErrQuotaExceeded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.rdb.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisKV) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.rdb.Del(ctx, r.prefix+key).Err()
}

// Close releases the connection pool.
func (r *RedisKV) Close() error {
	return r.rdb.Close()
}
