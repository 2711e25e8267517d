package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoked access tokens are tracked in Redis under this prefix, each entry
// living exactly as long as the token itself would.
const blacklistKeyPrefix = "blacklist:access:"

var blacklistClient *redis.Client

// SetBlacklistClient installs the Redis client used for access-token
// revocation. With no client (nil) revocation degrades to a no-op and every
// token reads as not blacklisted.
func SetBlacklistClient(c *redis.Client) {
	blacklistClient = c
}

// BlacklistAccessToken marks an access token as revoked for the given ttl,
// which should be the token's remaining lifetime.
func BlacklistAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	if blacklistClient == nil {
		return nil
	}
	return blacklistClient.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

// IsAccessTokenBlacklisted reports whether the token has been revoked.
func IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if blacklistClient == nil {
		return false, nil
	}
	n, err := blacklistClient.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
