package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenRevoked is returned when a presented token has been logged out.
var ErrTokenRevoked = errors.New("token has been revoked")

// Revoker tracks revoked token IDs. Tokens are short-lived, so entries only
// need to outlive the token itself.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "auth:revoked:"

// redisRevoker implements Revoker on a Redis denylist. Logout writes the
// token's jti with a TTL equal to its remaining lifetime; the auth middleware
// checks membership on every request.
type redisRevoker struct {
	rdb *redis.Client
}

// NewRedisRevoker creates a Revoker backed by the given Redis client.
func NewRedisRevoker(rdb *redis.Client) Revoker {
	return &redisRevoker{rdb: rdb}
}

func (r *redisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to deny.
		return nil
	}
	if err := r.rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", jti, err)
	}
	return nil
}

func (r *redisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
