package cache

import (
	"context"
	"time"

	"github.com/matzehuels/canopy/pkg/observability"
)

// Observed reports the hits, misses and writes of a cache to the
// registered [observability.CacheHooks], labelled with keyType.
type Observed struct {
	Cache
	keyType string
}

// Observe wraps c.
func Observe(c Cache, keyType string) *Observed {
	return &Observed{Cache: c, keyType: keyType}
}

// Get implements Cache.
func (o *Observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	switch {
	case err != nil:
	case ok:
		observability.Cache().OnCacheHit(ctx, o.keyType)
	default:
		observability.Cache().OnCacheMiss(ctx, o.keyType)
	}
	return data, ok, err
}

// Set implements Cache.
func (o *Observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, o.keyType, len(data))
	return nil
}

// Clear clears the wrapped cache if it supports it.
func (o *Observed) Clear(ctx context.Context) (int, error) {
	if c, ok := o.Cache.(Clearer); ok {
		return c.Clear(ctx)
	}
	return 0, nil
}
