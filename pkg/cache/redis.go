package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by a RedisCache.
const DefaultRedisPrefix = "canopy:"

// RedisCache stores entries in redis under a key prefix.
type RedisCache struct {
	client  *redis.Client
	prefix  string
	backoff Backoff
}

// RedisOption configures a RedisCache.
type RedisOption func(*redis.Options, *RedisCache)

// WithRedisPrefix replaces [DefaultRedisPrefix].
func WithRedisPrefix(p string) RedisOption {
	return func(_ *redis.Options, c *RedisCache) { c.prefix = p }
}

// WithRedisBackoff replaces [DefaultBackoff] for the initial ping.
func WithRedisBackoff(b Backoff) RedisOption {
	return func(_ *redis.Options, c *RedisCache) { c.backoff = b }
}

// WithRedisDB selects the redis database.
func WithRedisDB(db int) RedisOption {
	return func(o *redis.Options, _ *RedisCache) { o.DB = db }
}

// WithRedisPassword sets the AUTH password.
func WithRedisPassword(pw string) RedisOption {
	return func(o *redis.Options, _ *RedisCache) { o.Password = pw }
}

// NewRedisCache connects to the redis server at addr and pings it, retrying
// with backoff. Connection failures wrap [ErrNetwork].
func NewRedisCache(ctx context.Context, addr string, opts ...RedisOption) (*RedisCache, error) {
	o := &redis.Options{Addr: addr}
	c := &RedisCache{prefix: DefaultRedisPrefix, backoff: DefaultBackoff}
	for _, opt := range opts {
		opt(o, c)
	}
	c.client = redis.NewClient(o)

	err := c.backoff.Retry(ctx, func() error {
		if err := c.client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: ping %s: %v", ErrNetwork, addr, err))
		}
		return nil
	})
	if err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrNetwork, err)
	}
	return data, true, nil
}

// Set stores a value in the cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrNetwork, err)
	}
	return nil
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrNetwork, err)
	}
	return nil
}

// Clear deletes every key under the cache's prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	count := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return count, fmt.Errorf("%w: clear: %v", ErrNetwork, err)
		}
		count += int(n)
	}
	if err := iter.Err(); err != nil {
		return count, fmt.Errorf("%w: scan: %v", ErrNetwork, err)
	}
	return count, nil
}

// Addr returns the address of the redis server.
func (c *RedisCache) Addr() string { return c.client.Options().Addr }

// Close closes the client.
func (c *RedisCache) Close() error { return c.client.Close() }

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
