// Package cache holds the Redis-backed cache for public listings. It
// is cache-aside: every method tolerates Redis being absent or down,
// so a cache failure is never a request failure.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// ListingCache caches the public top-10 listings and the public tag
// set. A nil client disables it.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

const keyPrefix = "public:"

// NotesKey builds the cache key for a public note listing.
func NotesKey(noteType string, tagID uuid.UUID) string {
	if tagID == uuid.Nil {
		return keyPrefix + "notes:" + noteType
	}
	return keyPrefix + "notes:" + noteType + ":" + tagID.String()
}

// TagsKey is the cache key for the public tag filter list.
func TagsKey() string {
	return keyPrefix + "tags"
}

// Get unmarshals the cached value at key into dest. The bool reports a
// hit; misses and Redis errors both read as a miss.
func (c *ListingCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dest) == nil
}

// Set stores value at key for the cache TTL.
func (c *ListingCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate drops every public listing key. Called after each note or
// tag mutation.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}
