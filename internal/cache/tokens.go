package cache

import (
	"context"
	"time"

	"vybeecho/internal/observability"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// TokenStore tracks revoked JWT IDs so logged-out tokens stop working
// before they expire. A nil client degrades to "nothing is revoked".
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore returns a TokenStore backed by the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Revoke marks the given JTI as revoked until the token would have expired.
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	ctx, span := observability.TraceRedisOperation(ctx, "set")
	defer span.End()

	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the given JTI has been revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.client == nil || jti == "" {
		return false, nil
	}

	ctx, span := observability.TraceRedisOperation(ctx, "exists")
	defer span.End()

	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
