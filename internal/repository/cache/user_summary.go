// Package cache wraps repositories with a Redis cache-aside layer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"

	"github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "showcase:user:summary:" // showcase:user:summary:{user_id}

// UserSummaryCache caches display summaries in Redis. Identity lookups
// (GetByID, GetByEmail) always reach the underlying store so the active
// flag is never stale.
type UserSummaryCache struct {
	next   repositories.UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewUserSummaryCache wraps next with a summary cache
func NewUserSummaryCache(next repositories.UserRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *UserSummaryCache {
	return &UserSummaryCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient parses a redis:// URL and checks the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *UserSummaryCache) Create(ctx context.Context, user *models.User) error {
	if err := c.next.Create(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx, user.ID)
	return nil
}

func (c *UserSummaryCache) GetByID(ctx context.Context, id string) (*models.User, error) {
	return c.next.GetByID(ctx, id)
}

func (c *UserSummaryCache) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.next.GetByEmail(ctx, email)
}

// GetSummaries serves what it can from Redis and fills the rest from the
// underlying store. Redis failures degrade to a pass-through.
func (c *UserSummaryCache) GetSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	if len(ids) == 0 {
		return map[string]models.UserSummary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = summaryKey(id)
	}

	summaries := make(map[string]models.UserSummary, len(ids))
	var misses []string

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("user summary cache read failed", "error", err)
		return c.next.GetSummaries(ctx, ids)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}
		var s models.UserSummary
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			misses = append(misses, ids[i])
			continue
		}
		summaries[ids[i]] = s
	}

	if len(misses) == 0 {
		return summaries, nil
	}

	loaded, err := c.next.GetSummaries(ctx, misses)
	if err != nil {
		return nil, err
	}

	pipe := c.client.Pipeline()
	for id, s := range loaded {
		summaries[id] = s
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("marshal user summary: %w", err)
		}
		pipe.Set(ctx, summaryKey(id), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("user summary cache write failed", "error", err)
	}

	c.logger.Debug("user summaries resolved",
		"requested", len(ids),
		"cache_misses", len(misses),
	)

	return summaries, nil
}

// Invalidate drops the cached summary of a user whose profile changed
func (c *UserSummaryCache) Invalidate(ctx context.Context, userID string) {
	c.invalidate(ctx, userID)
}

func (c *UserSummaryCache) invalidate(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if err := c.client.Del(ctx, summaryKey(userID)).Err(); err != nil {
		c.logger.Warn("user summary cache invalidate failed", "user_id", userID, "error", err)
	}
}

func summaryKey(userID string) string {
	return summaryKeyPrefix + userID
}

var _ repositories.UserRepository = (*UserSummaryCache)(nil)
