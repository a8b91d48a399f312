package session

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupManager(t *testing.T, ttl time.Duration) (*RedisManager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewRedisManager(cache, ttl), mr
}

func TestCreateAndRead(t *testing.T) {
	mgr, _ := setupManager(t, time.Minute)
	ctx := context.Background()

	if err := mgr.Create(ctx, "sess-1", "5512345678"); err != nil {
		t.Fatalf("create: %v", err)
	}

	phone, err := mgr.Read(ctx, "sess-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if phone != "5512345678" {
		t.Fatalf("expected phone 5512345678, got %s", phone)
	}
}

func TestReadUnknownSession(t *testing.T) {
	mgr, _ := setupManager(t, time.Minute)

	if _, err := mgr.Read(context.Background(), "missing"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestExpiredSessionBehavesAsMissing(t *testing.T) {
	mgr, mr := setupManager(t, time.Minute)
	ctx := context.Background()

	if err := mgr.Create(ctx, "sess-1", "5512345678"); err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := mgr.Read(ctx, "sess-1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after TTL, got %v", err)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	mgr, _ := setupManager(t, time.Minute)
	ctx := context.Background()

	if err := mgr.Create(ctx, "sess-1", "5512345678"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mgr.Destroy(ctx, "sess-1"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if err := mgr.Destroy(ctx, "sess-1"); err != nil {
		t.Fatalf("second destroy should succeed: %v", err)
	}
	if _, err := mgr.Read(ctx, "sess-1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after destroy, got %v", err)
	}
}

func TestCreateOverwritesExisting(t *testing.T) {
	mgr, _ := setupManager(t, time.Minute)
	ctx := context.Background()

	if err := mgr.Create(ctx, "sess-1", "5512345678"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mgr.Create(ctx, "sess-1", "5587654321"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	phone, err := mgr.Read(ctx, "sess-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if phone != "5587654321" {
		t.Fatalf("expected last write to win, got %s", phone)
	}
}
