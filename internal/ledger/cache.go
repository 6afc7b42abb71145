package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tripsplit:ledger"

// Cache stores computed trip views in Redis. Every trip has its own version
// counter; bumping it orphans all keys built from the previous version, which
// then expire through their TTL. A nil *Cache or a Cache without a client
// caches nothing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

func versionKey(tripID string) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, tripID)
}

// Version returns the trip's current cache version. Missing counters read as zero.
func (c *Cache) Version(ctx context.Context, tripID string) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(tripID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Key composes the view key for the trip's current version.
func (c *Cache) Key(ctx context.Context, tripID string) (string, error) {
	ver, err := c.Version(ctx, tripID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:view:%d", keyPrefix, tripID, ver), nil
}

// Get loads a cached JSON value into dest and reports whether it was present.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached value: %w", err)
	}
	return true, nil
}

// Set stores value as JSON under key.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Bump invalidates every cached view of the trip.
func (c *Cache) Bump(ctx context.Context, tripID string) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, versionKey(tripID)).Err()
}
