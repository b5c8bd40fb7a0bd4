package token

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "refresh:"

// RedisRegistry backs the session registry with Redis for multi-process
// deployments. DEL's reply count is the conditional-delete primitive: two
// concurrent rotations of one token race on DEL and only one sees 1.
// Entries carry a server-side TTL, so expiry needs no sweep.
type RedisRegistry struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRegistry constructs a registry over client.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client, now: time.Now}
}

func (r *RedisRegistry) Put(ctx context.Context, s Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("token: session already expired")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+s.Token, data, ttl).Err()
}

func (r *RedisRegistry) Get(ctx context.Context, tok string) (Session, bool, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+tok).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, tok string) (bool, error) {
	n, err := r.client.Del(ctx, redisKeyPrefix+tok).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
