package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

const badgeKeyPrefix = "badge:counts:"

// BadgeCache implements domain.BadgeCache with short-TTL Redis entries.
// Broadcast notifications share a single read flag across admins, so
// any read-state mutation may change every admin's counters; the cache
// therefore invalidates globally rather than per admin.
type BadgeCache struct {
	client *Client
	ttl    time.Duration
}

// NewBadgeCache creates a badge counter cache
func NewBadgeCache(client *Client, ttl time.Duration) *BadgeCache {
	return &BadgeCache{
		client: client,
		ttl:    ttl,
	}
}

func badgeKey(adminID int64) string {
	return fmt.Sprintf("%s%d", badgeKeyPrefix, adminID)
}

// GetCounts returns the cached counters for adminID, or nil on a miss
func (c *BadgeCache) GetCounts(ctx context.Context, adminID int64) (*domain.UnreadCounts, error) {
	data, err := c.client.client.Get(ctx, badgeKey(adminID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get badge counts: %w", err)
	}

	var counts domain.UnreadCounts
	if err := json.Unmarshal(data, &counts); err != nil {
		// Treat a corrupt entry as a miss.
		return nil, nil
	}

	return &counts, nil
}

// SetCounts stores the counters for adminID with the configured TTL
func (c *BadgeCache) SetCounts(ctx context.Context, adminID int64, counts domain.UnreadCounts) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to marshal badge counts: %w", err)
	}

	if err := c.client.client.Set(ctx, badgeKey(adminID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set badge counts: %w", err)
	}

	return nil
}

// Invalidate drops every cached badge entry
func (c *BadgeCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.client.Scan(ctx, cursor, badgeKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan badge keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete badge keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
