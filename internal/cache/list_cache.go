package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes for the cached listings.
const (
	KeyEvents = "events:list"
	KeyPosts  = "posts:list"
)

// ListCache caches one JSON-encoded listing in Redis under a fixed key.
type ListCache[T any] struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewListCache returns a ListCache storing under key with the given ttl.
func NewListCache[T any](rdb *redis.Client, key string, ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{rdb: rdb, key: key, ttl: ttl}
}

// Get returns the cached list, or nil on a miss.
func (c *ListCache[T]) Get(ctx context.Context) ([]T, error) {
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []T
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Set stores list. An empty list is cached as [] so that it still counts as a hit.
func (c *ListCache[T]) Set(ctx context.Context, list []T) error {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key, b, c.ttl).Err()
}

// Invalidate drops the cached list.
func (c *ListCache[T]) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}
