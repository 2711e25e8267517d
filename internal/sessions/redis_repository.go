package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionPrefix = "session:"

// RedisRepository stores each session as a JSON value whose key TTL matches
// the session expiry, so Redis reaps stale sessions by itself.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository wraps the given client. An empty prefix falls back to
// "session:".
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(refresh string) string {
	return r.prefix + refresh
}

// Create stores the session under its refresh token. A session whose expiry
// is already in the past is not written: it would be indistinguishable from
// a missing one on the next lookup anyway.
func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	if s.ExpiresAt.IsZero() {
		return ErrNoExpiry
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(s.RefreshToken), b, ttl).Err()
}

func (r *RedisRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(refresh)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	// the key TTL normally handles this; guard against clock skew between
	// the stored expiry and the Redis server
	if s.Expired(time.Now().UTC()) {
		_ = r.client.Del(ctx, r.key(refresh)).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *RedisRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	return r.client.Del(ctx, r.key(refresh)).Err()
}
