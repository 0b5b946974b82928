// Package cache holds the optional Redis layer. Every operation is best
// effort: a missing client or a Redis outage degrades to a cache miss, never
// an error the caller has to handle.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InsightsCache stores generated insight lists per user with a TTL so repeat
// dashboard loads do not re-run the provider pipeline.
type InsightsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInsightsCache connects to Redis. An empty host returns a nil-client
// cache that always misses.
func NewInsightsCache(host, port string, ttl time.Duration) (*InsightsCache, error) {
	if host == "" {
		return &InsightsCache{ttl: ttl}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &InsightsCache{client: client, ttl: ttl}, nil
}

func (c *InsightsCache) key(userID string) string {
	return fmt.Sprintf("user:%s:insights", userID)
}

// Get returns the cached insights for a user, or ok=false on miss.
func (c *InsightsCache) Get(ctx context.Context, userID string) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	result := c.client.Get(ctx, c.key(userID))
	if result.Err() != nil {
		return nil, false
	}

	var insights []string
	if err := json.Unmarshal([]byte(result.Val()), &insights); err != nil {
		return nil, false
	}
	return insights, true
}

// Set stores insights for a user with the configured TTL.
func (c *InsightsCache) Set(ctx context.Context, userID string, insights []string) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(insights)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(userID), data, c.ttl)
}

// Invalidate drops a user's cached insights, called when new mood or journal
// data lands.
func (c *InsightsCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, c.key(userID))
}

// Close closes the Redis connection.
func (c *InsightsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
