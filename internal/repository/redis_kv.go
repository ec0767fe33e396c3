package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
)

type RedisCfg struct {
	Address  string
	Password string
	DB       int
}

type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(ctx context.Context, cfg *RedisCfg) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisKV{client: client}, nil
}

func (kv *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := kv.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorvalues.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

// Set stores value without expiry. A single SET replaces the document atomically.
func (kv *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := kv.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (kv *RedisKV) Ping(ctx context.Context) error {
	return kv.client.Ping(ctx).Err()
}

func (kv *RedisKV) Close() error {
	return kv.client.Close()
}
