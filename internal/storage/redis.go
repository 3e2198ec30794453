package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*Redis)(nil)

// Redis keeps each partition as a JSON blob under a namespaced key, so a
// cart started on one terminal survives on another pointing at the same
// server.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedis connects to the server described by redisURL and pings it.
func NewRedis(ctx context.Context, redisURL, keyPrefix string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client, keyPrefix: keyPrefix}, nil
}

func (r *Redis) key(partition string) string {
	return r.keyPrefix + ":" + partition
}

func (r *Redis) Get(ctx context.Context, partition string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(partition)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read partition %s: %w", partition, err)
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, partition string, data []byte) error {
	if err := r.client.Set(ctx, r.key(partition), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write partition %s: %w", partition, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, partition string) error {
	if err := r.client.Del(ctx, r.key(partition)).Err(); err != nil {
		return fmt.Errorf("failed to delete partition %s: %w", partition, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.keyPrefix+":*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan storage keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear storage: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
