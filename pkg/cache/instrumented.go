package cache

import (
	"context"
	"strings"
	"time"

	"github.com/tavalabs/tava/pkg/observability"
)

// Instrumented wraps c so every Get and Set reports to the registered
// cache hooks. The key type is the part of the key before the first colon
// after any scope prefix ("layout", "artifact").
func Instrumented(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{inner: c}
}

type instrumented struct {
	inner Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error { return c.inner.Close() }

func keyType(key string) string {
	for _, t := range []string{KeyTypeLayout, KeyTypeArtifact, KeyTypeSession} {
		if strings.Contains(key, t+":") {
			return t
		}
	}
	return "other"
}
