package viewcache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, zap.NewNop())
}

func TestSetGetInvalidate(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	tag := TagEntries("u1")
	if _, ok := cache.Get(ctx, tag); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Set(ctx, tag, []byte(`[{"name":"Jane Doe"}]`))

	payload, ok := cache.Get(ctx, tag)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(payload) != `[{"name":"Jane Doe"}]` {
		t.Errorf("unexpected payload %q", payload)
	}

	cache.Invalidate(ctx, tag)

	if _, ok := cache.Get(ctx, tag); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestInvalidateMultipleTags(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, TagEntries("u1"), []byte("list"))
	cache.Set(ctx, TagEntry("e1"), []byte("detail"))
	cache.Set(ctx, TagSavedQuotes("u1"), []byte("quotes"))

	// updateDeceased invalidates both the listing and the detail view.
	cache.Invalidate(ctx, TagEntries("u1"), TagEntry("e1"))

	if _, ok := cache.Get(ctx, TagEntries("u1")); ok {
		t.Error("entries view should be stale")
	}
	if _, ok := cache.Get(ctx, TagEntry("e1")); ok {
		t.Error("entry view should be stale")
	}
	if _, ok := cache.Get(ctx, TagSavedQuotes("u1")); !ok {
		t.Error("unrelated view should survive")
	}
}

func TestTagsAreUserScoped(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, TagEntries("userA"), []byte("a"))
	cache.Set(ctx, TagEntries("userB"), []byte("b"))

	cache.Invalidate(ctx, TagEntries("userA"))

	if _, ok := cache.Get(ctx, TagEntries("userB")); !ok {
		t.Error("user B's view must not be invalidated by user A's mutation")
	}
}

func TestNilClientPassThrough(t *testing.T) {
	cache := New(nil, zap.NewNop())
	ctx := context.Background()

	cache.Set(ctx, TagEntries("u1"), []byte("x"))
	if _, ok := cache.Get(ctx, TagEntries("u1")); ok {
		t.Error("nil-client cache must always miss")
	}
	cache.Invalidate(ctx, TagEntries("u1"))
}
