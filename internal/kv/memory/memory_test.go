package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
)

func TestSetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	if _, ok, err := s.Get(ctx, "a"); err != nil || ok {
		t.Fatalf("expected missing slot, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("unexpected get result %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove(ctx, "a"); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
}

func TestQuota(t *testing.T) {
	ctx := context.Background()
	s := New(10)

	if err := s.Set(ctx, "k", "123456789"); err != nil {
		t.Fatalf("set within quota: %v", err)
	}
	if err := s.Set(ctx, "x", "1"); !errors.Is(err, kv.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	// Overwriting a slot only counts the new value.
	if err := s.Set(ctx, "k", "12345"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := s.Used(); got != 6 {
		t.Fatalf("expected 6 bytes used, got %d", got)
	}
}

func TestClosed(t *testing.T) {
	s := New(0)
	_ = s.Close()
	if err := s.Set(context.Background(), "a", "b"); !errors.Is(err, kv.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
