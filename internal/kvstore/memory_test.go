package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "cart:u1", `[{"productId":"1","quantity":2}]`, 0); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "cart:u1")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got != `[{"productId":"1","quantity":2}]` {
		t.Errorf("Get() = %q", got)
	}

	if err := store.Delete(ctx, "cart:u1"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "cart:u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	if err := store.Set(ctx, "token", "abc", time.Minute); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, "token"); err != nil {
		t.Errorf("Get() before expiry error = %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Increment(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, "rate:1.2.3.4", time.Minute)
		if err != nil {
			t.Fatalf("Increment() unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("Increment() = %d, want %d", got, want)
		}
	}

	// Window rolls over; counter starts fresh.
	current = current.Add(2 * time.Minute)
	got, err := store.Increment(ctx, "rate:1.2.3.4", time.Minute)
	if err != nil {
		t.Fatalf("Increment() unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("Increment() after window = %d, want 1", got)
	}
}
