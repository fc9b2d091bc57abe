package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ViewCache is a JSON-backed Redis cache for read projections of type T.
// A zero ttl keeps keys until they are deleted.
type ViewCache[T any] struct {
	client   *goredis.Client
	ttl      time.Duration
	inflight singleflight.Group
}

func NewViewCache[T any](client *goredis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get returns (nil, false) on any miss or decode error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("ViewCache: decode error for key %s: %v", key, err)
		return nil, false
	}
	return &v, true
}

// Set never fails the caller; write errors are logged.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("ViewCache: marshal error for key %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("ViewCache: write error for key %s: %v", key, err)
	}
}

func (c *ViewCache[T]) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("ViewCache: delete error for keys %v: %v", keys, err)
	}
}

// GetOrLoad serves key from the cache, otherwise runs load once for all
// concurrent callers of the same key and caches its result. The shared
// load is not cancelled when the caller that started it goes away.
func (c *ViewCache[T]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	res, err, _ := c.inflight.Do(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.Set(loadCtx, key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*T), nil
}

// DeletePrefix removes every key starting with prefix.
func (c *ViewCache[T]) DeletePrefix(ctx context.Context, prefix string) {
	var keys []string
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("ViewCache: scan error for prefix %s: %v", prefix, err)
		return
	}
	c.Delete(ctx, keys...)
}
