//go:build unit

package cache

import (
	"blogicum/internal/config"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(config.CacheConfig{FilePath: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("category:travel", []byte(`{"slug":"travel"}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get("category:travel")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"slug":"travel"}` {
		t.Errorf("unexpected value %q", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c := newTestCache(t)

	got, err := c.Get("missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on miss, got %q", got)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("short", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get("short")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired entry to be a miss, got %q", got)
	}
}

func TestCache_DeleteAndPurge(t *testing.T) {
	c := newTestCache(t)

	_ = c.Set("keep", []byte("1"), time.Hour)
	_ = c.Set("stale-a", []byte("2"), -time.Minute)
	_ = c.Set("stale-b", []byte("3"), -time.Minute)

	removed, err := c.Purge()
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 purged entries, got %d", removed)
	}

	if err := c.Delete("keep"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := c.Get("keep"); got != nil {
		t.Errorf("expected deleted entry to be a miss, got %q", got)
	}
}
