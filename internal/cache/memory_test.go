package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/splax/accounts/internal/domain"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	c := NewMemoryProfileCache(0)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "user-1"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss for absent key, got %v", err)
	}

	profile := domain.Profile{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	if err := c.Set(ctx, "user-1", profile); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != profile {
		t.Fatalf("unexpected profile: %+v", got)
	}

	if err := c.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "user-1"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after delete, got %v", err)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryProfileCache(time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "user-1", domain.Profile{Email: "jane@example.com"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := c.Get(ctx, "user-1"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after ttl elapsed, got %v", err)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryProfileCache(0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "user-1", domain.Profile{Email: "old@example.com"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set(ctx, "user-1", domain.Profile{Email: "new@example.com"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "new@example.com" {
		t.Fatalf("expected latest write, got %q", got.Email)
	}
}
