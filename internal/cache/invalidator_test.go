package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// failingCache always errors, to prove invalidation swallows failures.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) { return nil, errors.New("down") }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}
func (failingCache) Delete(context.Context, string) error { return errors.New("down") }
func (failingCache) Clear(context.Context) error          { return errors.New("down") }
func (failingCache) Close() error                         { return nil }

func TestInvalidatePaths_DropsAllLocaleVariants(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()

	ctx := context.Background()
	keys := []string{
		PageKey("en", "/"),
		PageKey("ja", "/"),
		PageKey("en", "/articles/takayama-guide"),
		PageKey("ja", "/articles/takayama-guide"),
		PageKey("en", "/articles/unrelated"),
	}
	for _, key := range keys {
		_ = c.Set(ctx, key, []byte("html"), 0)
	}

	inv := NewPathInvalidator(c, nil, []string{"en", "ja"})
	inv.InvalidatePaths(ctx, "/articles/takayama-guide")

	for _, key := range keys[:4] {
		if _, err := c.Get(ctx, key); err != ErrCacheMiss {
			t.Errorf("key %q should be invalidated, got %v", key, err)
		}
	}
	// Unrelated paths survive.
	if _, err := c.Get(ctx, PageKey("en", "/articles/unrelated")); err != nil {
		t.Errorf("unrelated key was invalidated: %v", err)
	}
}

func TestInvalidatePaths_SwallowsErrors(t *testing.T) {
	inv := NewPathInvalidator(failingCache{}, nil, []string{"en", "ja"})
	// Must not panic or propagate anything.
	inv.InvalidatePaths(context.Background(), "/articles/x")
}

func TestInvalidatePaths_NilCache(t *testing.T) {
	inv := NewPathInvalidator(nil, nil, []string{"en"})
	inv.InvalidatePaths(context.Background(), "/x")
}
