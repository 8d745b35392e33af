package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/splax/accounts/internal/domain"
)

type redisProfileCache struct {
	client  *redis.Client
	logger  *slog.Logger
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisProfileCache constructs a Redis backed profile cache. The ttl
// bounds how long an entry may outlive its last write; zero keeps entries
// until the next write or external eviction.
func NewRedisProfileCache(addr, password string, db int, ttl time.Duration, logger *slog.Logger) (ProfileCache, error) {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &redisProfileCache{
		client:  client,
		logger:  logger,
		prefix:  "accounts:profile:",
		ttl:     ttl,
		timeout: 250 * time.Millisecond,
	}, nil
}

func (c *redisProfileCache) Get(ctx context.Context, userID string) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Profile{}, ErrMiss
		}
		return domain.Profile{}, err
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		// Entries that no longer decode are as good as absent.
		c.logger.Warn("profile cache entry malformed", "user_id", userID, "error", err)
		return domain.Profile{}, ErrMiss
	}
	return profile, nil
}

func (c *redisProfileCache) Set(ctx context.Context, userID string, profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Set(ctx, c.prefix+userID, raw, c.ttl).Err()
}

func (c *redisProfileCache) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Del(ctx, c.prefix+userID).Err()
}

func (c *redisProfileCache) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}
