package kvstore_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stronghold-go/stronghold/kvstore"
)

func newStore(t *testing.T) *kvstore.Store {
	t.Helper()

	s, err := kvstore.New(t.Context())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStore_InsertAndGet(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	if err := s.Insert(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get() = %q, want %q", got, "v")
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Get(t.Context(), []byte("missing"))
	if !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_ExpiredEntryTreatedAsAbsent(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	if err := s.InsertWithTTL(ctx, []byte("k"), []byte("v"), -time.Second); err != nil {
		t.Fatalf("InsertWithTTL: %v", err)
	}

	if _, err := s.Get(ctx, []byte("k")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("Get() on expired entry = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	_ = s.Insert(ctx, []byte("k"), []byte("v"))

	ok, err := s.Delete(ctx, []byte("k"))
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if !ok {
		t.Errorf("Delete() = false, want true for an existing key")
	}

	if ok, err := s.Delete(ctx, []byte("k")); err != nil || ok {
		t.Errorf("Delete() on already-deleted key = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	_ = s.Insert(ctx, []byte("a"), []byte("1"))
	_ = s.Insert(ctx, []byte("b"), []byte("2"))

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, err := s.Get(ctx, []byte("a")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("Get() after Clear = %v, want ErrNotFound", err)
	}
}

func TestStore_SerializeRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	_ = s.Insert(ctx, []byte("k"), []byte("v"))

	buf, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored, err := kvstore.NewFromSerialized(t.Context(), buf)
	if err != nil {
		t.Fatalf("NewFromSerialized: %v", err)
	}
	defer restored.Close()

	got, err := restored.Get(t.Context(), []byte("k"))
	if err != nil {
		t.Fatalf("Get on restored store: %v", err)
	}

	if !bytes.Equal(got, []byte("v")) {
		t.Errorf("restored Get() = %q, want %q", got, "v")
	}
}

func TestStore_EvictExpired(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	_ = s.InsertWithTTL(ctx, []byte("k"), []byte("v"), -time.Second)
	_ = s.Insert(ctx, []byte("keep"), []byte("v"))

	n, err := s.EvictExpired(ctx)
	if err != nil {
		t.Fatalf("EvictExpired: %v", err)
	}

	if n != 1 {
		t.Errorf("EvictExpired() removed %d entries, want 1", n)
	}

	if _, err := s.Get(ctx, []byte("keep")); err != nil {
		t.Errorf("Get(keep) after EvictExpired: %v", err)
	}
}
