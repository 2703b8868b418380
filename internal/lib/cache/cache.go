// Package cache keeps rendered report content in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "campus:report:"
	DefaultTTL = 24 * time.Hour
)

// ReportCache is a nil-safe wrapper: a cache without a client misses on
// every read and ignores writes.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get returns the cached content and whether it was found.
func (c *ReportCache) Get(ctx context.Context, id uuid.UUID) (string, bool, error) {
	if c == nil || c.client == nil {
		return "", false, nil
	}

	content, err := c.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading report cache: %w", err)
	}
	return content, true, nil
}

func (c *ReportCache) Set(ctx context.Context, id uuid.UUID, content string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key(id), content, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing report cache: %w", err)
	}
	return nil
}

func (c *ReportCache) Delete(ctx context.Context, id uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("evicting report cache: %w", err)
	}
	return nil
}
