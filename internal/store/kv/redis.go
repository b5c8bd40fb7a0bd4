package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "console:"

// Redis stores values as plain Redis strings under a console: prefix.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a store over client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, keyPrefix+key, value, 0).Err()
}
