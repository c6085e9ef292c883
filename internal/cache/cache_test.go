package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want v", got)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()

	_, err := c.Get(context.Background(), "missing")
	if err != ErrCacheMiss {
		t.Errorf("Get = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get after expiry = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get after delete = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	_ = c.Close()

	if _, err := c.Get(context.Background(), "k"); err != ErrCacheClosed {
		t.Errorf("Get on closed cache = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(context.Background(), "k", nil, 0); err != ErrCacheClosed {
		t.Errorf("Set on closed cache = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("abc"), 0)

	got, _ := c.Get(ctx, "k")
	got[0] = 'x'

	again, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("cached value mutated through returned slice: %q", again)
	}
}

func TestNewCache_DefaultsToMemory(t *testing.T) {
	c, err := NewCache(DefaultConfig())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("NewCache without RedisURL = %T, want *MemoryCache", c)
	}
}
