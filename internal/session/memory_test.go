package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"retail-console/internal/domain"
)

func TestMemoryLifecycle(t *testing.T) {
	store := NewMemory(time.Hour)
	ctx := context.Background()

	created, err := store.Create(ctx, Session{
		Token: "jwt",
		Email: "alice@shop.co.mz",
		Roles: []string{"ROLE_ADMIN"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated session id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Token != "jwt" || got.Email != "alice@shop.co.mz" {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := store.SetCartID(ctx, created.ID, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = store.Get(ctx, created.ID)
	if got.CartID != 42 {
		t.Fatalf("expected cart id persisted, got %d", got.CartID)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory(10 * time.Millisecond)
	ctx := context.Background()

	created, err := store.Create(ctx, Session{Token: "jwt", Email: "x@y.z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(25 * time.Millisecond)
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
	if err := store.SetCartID(ctx, created.ID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on expired session, got %v", err)
	}
}

func TestMemoryUnknownID(t *testing.T) {
	store := NewMemory(time.Hour)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
