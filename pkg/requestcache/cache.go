// Package requestcache provides per-request memoization for query-layer
// reads. A cache is installed into the request context by middleware and
// lives exactly as long as the request: repeated reads with identical keys
// within one request reuse the result, and nothing is ever shared across
// requests.
package requestcache

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

type contextKey string

// CacheKey is the context key for the request-scoped cache.
const CacheKey contextKey = "requestCache"

// Cache is a request-scoped memoization table.
// Safe for concurrent use within one request.
type Cache struct {
	mu      sync.Mutex
	entries map[string]interface{}
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]interface{})}
}

// Key builds a cache key from a function name and its arguments.
func Key(fn string, args ...string) string {
	if len(args) == 0 {
		return fn
	}
	return fn + ":" + strings.Join(args, ":")
}

// Get returns the memoized value for key, if present.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set memoizes a value for key.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Forget drops every memoized key with the given prefix. Mutations call
// this so a read after a write within the same request sees fresh state.
func (c *Cache) Forget(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// FromContext retrieves the request cache from the context.
// Returns nil and false when no cache was installed (e.g. in tests or
// background work); callers must treat that as a cache miss.
func FromContext(ctx context.Context) (*Cache, bool) {
	c, ok := ctx.Value(CacheKey).(*Cache)
	return c, ok
}

// WithCache installs a cache into the context.
func WithCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, CacheKey, New())
}

// Middleware installs a fresh request cache into every request's context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithCache(r.Context())))
	})
}

// Memo runs fn through the request cache under key. When no cache is
// present in the context, fn runs directly.
func Memo[T any](ctx context.Context, key string, fn func() (T, error)) (T, error) {
	cache, ok := FromContext(ctx)
	if !ok {
		return fn()
	}

	if v, hit := cache.Get(key); hit {
		if typed, castOK := v.(T); castOK {
			return typed, nil
		}
	}

	v, err := fn()
	if err != nil {
		return v, err
	}
	cache.Set(key, v)
	return v, nil
}
