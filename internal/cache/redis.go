// Package cache provides an optional Redis-backed recommendation cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"finefoods-recommender/internal/recommend"
	"finefoods-recommender/pkg/logger"
)

// RecommendationCache stores computed recommendations in Redis with a TTL.
// A nil *RecommendationCache is valid and behaves as a disabled cache.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to Redis and returns a cache. ttl <= 0 means entries never
// expire.
func New(addr string, db int, ttl time.Duration) (*RecommendationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
		logger: logger.Get(),
	}, nil
}

// Close releases the Redis connection
func (c *RecommendationCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func key(userID string) string {
	return "recommendation:" + userID
}

// Get returns the cached recommendation for userID, or false on a miss.
// Cache failures are logged and treated as misses.
func (c *RecommendationCache) Get(ctx context.Context, userID string) (*recommend.Recommendation, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Recommendation cache read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	var rec recommend.Recommendation
	if err := json.Unmarshal(payload, &rec); err != nil {
		c.logger.Warn("Recommendation cache entry corrupt", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return &rec, true
}

// Set stores a recommendation. Failures are logged, never surfaced.
func (c *RecommendationCache) Set(ctx context.Context, rec *recommend.Recommendation) {
	if c == nil || rec == nil {
		return
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		c.logger.Warn("Failed to encode recommendation for cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key(rec.UserID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Recommendation cache write failed", zap.String("user_id", rec.UserID), zap.Error(err))
	}
}
