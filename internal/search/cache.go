package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skillanthropy/skillanthropy-api/internal/logger"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

const generationKey = "search:generation"

// Cache is the key-value store the cached engine keeps results in.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// RedisCache is a Cache on a redis client.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return value, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

// CachedEngine caches Search results. Any Index or Delete bumps a
// generation counter that is part of every key, so stale entries are never
// read again and simply expire.
type CachedEngine struct {
	next  Engine
	cache Cache
	ttl   time.Duration
}

func NewCachedEngine(next Engine, cache Cache, ttl time.Duration) *CachedEngine {
	return &CachedEngine{next: next, cache: cache, ttl: ttl}
}

func (e *CachedEngine) generation(ctx context.Context) (string, error) {
	raw, err := e.cache.Get(ctx, generationKey)
	if errors.Is(err, ErrCacheMiss) {
		return "0", nil
	}
	return string(raw), err
}

func cacheKey(generation, query string, collections []Collection) string {
	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = string(c)
	}
	sort.Strings(names)
	return fmt.Sprintf("search:%s:%s:%s", generation, strings.Join(names, ","), query)
}

func (e *CachedEngine) Search(ctx context.Context, query string, collections []Collection) ([]Hit, error) {
	if len(collections) == 0 {
		collections = AllCollections
	}

	gen, err := e.generation(ctx)
	if err != nil {
		logger.Log.Warnw("search cache unavailable", "error", err)
		return e.next.Search(ctx, query, collections)
	}
	key := cacheKey(gen, query, collections)

	if raw, err := e.cache.Get(ctx, key); err == nil {
		var hits []Hit
		if err := json.Unmarshal(raw, &hits); err == nil {
			return hits, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.Log.Warnw("search cache read failed", "key", key, "error", err)
	}

	hits, err := e.next.Search(ctx, query, collections)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(hits); err == nil {
		if err := e.cache.Set(ctx, key, raw, e.ttl); err != nil {
			logger.Log.Warnw("search cache write failed", "key", key, "error", err)
		}
	}
	return hits, nil
}

// SearchWithin is per-user and is not cached.
func (e *CachedEngine) SearchWithin(ctx context.Context, query string, collection Collection, ids []string) ([]Hit, error) {
	return e.next.SearchWithin(ctx, query, collection, ids)
}

func (e *CachedEngine) Index(ctx context.Context, collection Collection, id string, doc interface{}) error {
	if err := e.next.Index(ctx, collection, id, doc); err != nil {
		return err
	}
	e.invalidate(ctx)
	return nil
}

func (e *CachedEngine) Delete(ctx context.Context, collection Collection, id string) error {
	if err := e.next.Delete(ctx, collection, id); err != nil {
		return err
	}
	e.invalidate(ctx)
	return nil
}

func (e *CachedEngine) invalidate(ctx context.Context) {
	if _, err := e.cache.Incr(ctx, generationKey); err != nil {
		logger.Log.Warnw("search cache invalidation failed", "error", err)
	}
}
