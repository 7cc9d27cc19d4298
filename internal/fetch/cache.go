// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChangeCache remembers content hashes per URL so unchanged pages can skip
// re-analysis.
type ChangeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChangeCache connects to Redis. TTL bounds how long a hash is trusted.
func NewChangeCache(addr, password string, db int, ttl time.Duration) *ChangeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ChangeCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping verifies connectivity.
func (c *ChangeCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Changed reports whether the page content differs from the last stored
// hash, and stores the new hash. A cache miss counts as changed.
func (c *ChangeCache) Changed(ctx context.Context, pageURL, text string) (bool, error) {
	key := cacheKey(pageURL)
	hash := contentHash(text)

	previous, err := c.client.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return true, fmt.Errorf("redis get: %w", err)
	}

	if err := c.client.Set(ctx, key, hash, c.ttl).Err(); err != nil {
		return true, fmt.Errorf("redis set: %w", err)
	}
	return previous != hash, nil
}

// Close releases the client.
func (c *ChangeCache) Close() error {
	return c.client.Close()
}

func cacheKey(pageURL string) string {
	return fmt.Sprintf("medcheck:page:%x", sha256.Sum256([]byte(pageURL)))
}

func contentHash(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}
