package keystore_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/keystore"
)

func TestKeyStore_InsertAndWith(t *testing.T) {
	k := keystore.New()
	vid := ids.DeriveVaultID([]byte("v"))

	k.InsertKey(vid, []byte("key-material"))

	var got []byte

	err := k.With(vid, func(key []byte) error {
		got = append(got, key...)
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	if !bytes.Equal(got, []byte("key-material")) {
		t.Errorf("With() key = %q, want %q", got, "key-material")
	}
}

func TestKeyStore_With_NotFound(t *testing.T) {
	k := keystore.New()
	vid := ids.DeriveVaultID([]byte("missing"))

	err := k.With(vid, func([]byte) error { return nil })
	if !errors.Is(err, keystore.ErrKeyNotFound) {
		t.Errorf("With() error = %v, want ErrKeyNotFound", err)
	}
}

func TestKeyStore_GetOrInsertKey_OnlyGeneratesOnce(t *testing.T) {
	k := keystore.New()
	vid := ids.DeriveVaultID([]byte("v"))

	calls := 0
	generate := func() ([]byte, error) {
		calls++
		return []byte("generated"), nil
	}

	if _, err := k.GetOrInsertKey(vid, generate); err != nil {
		t.Fatalf("GetOrInsertKey: %v", err)
	}

	if _, err := k.GetOrInsertKey(vid, generate); err != nil {
		t.Fatalf("GetOrInsertKey (second): %v", err)
	}

	if calls != 1 {
		t.Errorf("generate called %d times, want 1", calls)
	}
}

func TestKeyStore_RemoveKey(t *testing.T) {
	k := keystore.New()
	vid := ids.DeriveVaultID([]byte("v"))

	k.InsertKey(vid, []byte("x"))

	if !k.ContainsKey(vid) {
		t.Fatalf("expected key to be present")
	}

	k.RemoveKey(vid)

	if k.ContainsKey(vid) {
		t.Errorf("expected key to be removed")
	}

	if err := k.With(vid, func([]byte) error { return nil }); !errors.Is(err, keystore.ErrKeyNotFound) {
		t.Errorf("With() after remove = %v, want ErrKeyNotFound", err)
	}
}

func TestKeyStore_Rebuild(t *testing.T) {
	k := keystore.New()

	v1 := ids.DeriveVaultID([]byte("v1"))
	v2 := ids.DeriveVaultID([]byte("v2"))

	k.InsertKey(v1, []byte("old"))

	k.Rebuild(map[ids.VaultID][]byte{v2: []byte("new")})

	if k.ContainsKey(v1) {
		t.Errorf("expected v1 to be dropped after Rebuild")
	}

	if !k.ContainsKey(v2) {
		t.Errorf("expected v2 to be present after Rebuild")
	}
}

func TestKeyStore_ExportAll(t *testing.T) {
	k := keystore.New()
	vid := ids.DeriveVaultID([]byte("v"))

	k.InsertKey(vid, []byte("key-bytes"))

	exported := k.ExportAll()

	got, ok := exported[vid]
	if !ok {
		t.Fatalf("expected ExportAll to include %s", vid)
	}

	if !bytes.Equal(got, []byte("key-bytes")) {
		t.Errorf("ExportAll()[vid] = %q, want %q", got, "key-bytes")
	}
}

func TestKeyStore_Clear(t *testing.T) {
	k := keystore.New()
	vid := ids.DeriveVaultID([]byte("v"))

	k.InsertKey(vid, []byte("x"))
	k.Clear()

	if len(k.VaultIDs()) != 0 {
		t.Errorf("expected no vault ids after Clear")
	}
}
