package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"workspace/internal/domain/services"
)

const identityKeyPrefix = "workspace:identity:"

// CachedResolver memoizes successful resolutions in Redis. Failures are never
// cached, and a Redis outage only costs a call to the wrapped resolver.
type CachedResolver struct {
	next   services.IdentityResolver
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedResolver wraps next with a Redis cache holding entries for ttl.
func NewCachedResolver(next services.IdentityResolver, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient builds the client used for the identity cache.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

func (c *CachedResolver) Resolve(ctx context.Context, creds services.Credentials) (int32, error) {
	key := cacheKey(creds)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if id, convErr := strconv.ParseInt(val, 10, 32); convErr == nil {
			return int32(id), nil
		}
		c.logger.Warn("discarding malformed identity cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("identity cache read failed", "error", err)
	}

	userID, err := c.next.Resolve(ctx, creds)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, strconv.FormatInt(int64(userID), 10), c.ttl).Err(); err != nil {
		c.logger.Warn("identity cache write failed", "error", err)
	}

	return userID, nil
}

// cacheKey hashes the credentials so raw tokens and cookies never reach Redis.
func cacheKey(creds services.Credentials) string {
	h := sha256.New()
	h.Write([]byte(creds.Authorization))
	h.Write([]byte{0})
	h.Write([]byte(creds.Cookie))
	h.Write([]byte{0})
	h.Write([]byte(creds.BaseURL))
	return identityKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
