package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

// IndexPageKeyFormat names the cached body of one page of the global feed.
const IndexPageKeyFormat = "index_page:%d"

// DefaultPageTTL is how long a cached index page is served.
const DefaultPageTTL = 20 * time.Second

// IndexPageKey returns the cache key for page n of the global feed.
func IndexPageKey(n int) string {
	return fmt.Sprintf(IndexPageKeyFormat, n)
}

// PageCache stores fully rendered response bodies. Entries expire on their
// own; Clear drops everything at once.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// RedisPageCache keeps pages in Redis under a common key prefix.
type RedisPageCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisPageCache returns a PageCache backed by rdb.
func NewRedisPageCache(rdb *redis.Client, prefix string) *RedisPageCache {
	return &RedisPageCache{rdb: rdb, prefix: prefix}
}

func (c *RedisPageCache) key(k string) string {
	return c.prefix + k
}

// Get returns the cached value and whether it was present.
func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		observability.PageCacheRequests.WithLabelValues("miss").Inc()
		return nil, false, nil
	case err != nil:
		observability.PageCacheRequests.WithLabelValues("error").Inc()
		return nil, false, err
	}
	observability.PageCacheRequests.WithLabelValues("hit").Inc()
	return val, true, nil
}

// Set stores value for ttl. A non-positive ttl would make the entry
// permanent in Redis, so nothing is stored.
func (c *RedisPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}

// ErrEmptyPrefix is returned by Clear when the cache has no key prefix.
var ErrEmptyPrefix = errors.New("page cache prefix is empty")

// Clear deletes every key under the prefix. It refuses to run without a
// prefix, which would match the whole keyspace.
func (c *RedisPageCache) Clear(ctx context.Context) error {
	if c.prefix == "" {
		return ErrEmptyPrefix
	}
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			pipe := c.rdb.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	observability.PageCacheClears.Inc()
	return nil
}

// NopPageCache never stores anything.
type NopPageCache struct{}

func (NopPageCache) Get(context.Context, string) ([]byte, bool, error) {
	observability.PageCacheRequests.WithLabelValues("miss").Inc()
	return nil, false, nil
}

func (NopPageCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NopPageCache) Clear(context.Context) error { return nil }

// NewPageCache picks the Redis cache when a client is available.
func NewPageCache(rdb *redis.Client, prefix string) PageCache {
	if rdb == nil {
		return NopPageCache{}
	}
	return NewRedisPageCache(rdb, prefix)
}
