package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
)

const keyPrefix = "skillswap:rating:"

// RatingCache implements repository.RatingCache using Redis.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCache creates a Redis-backed rating cache. Entries expire after ttl
// even without explicit invalidation.
func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached summary for userID, or nil on a miss.
func (c *RatingCache) Get(ctx context.Context, userID string) (*domain.RatingSummary, error) {
	data, err := c.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get rating: %w", err)
	}

	var summary domain.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal rating: %w", err)
	}
	return &summary, nil
}

// Set stores summary under its user id.
func (c *RatingCache) Set(ctx context.Context, summary *domain.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal rating: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+summary.UserID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rating: %w", err)
	}
	return nil
}

// Invalidate drops cached summaries for userIDs.
func (c *RatingCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = keyPrefix + id
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del rating: %w", err)
	}
	return nil
}

// Ping checks the Redis connection for readiness probes.
func (c *RatingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
