//go:build strongholdtesthooks

package client_test

import (
	"bytes"
	"testing"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/syncengine"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.New(t.Context(), []byte("test-client"), boxprovider.New())
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	return c
}

func TestClient_WriteAndReadSecret(t *testing.T) {
	c := newClient(t)
	v := c.Vault([]byte("vault-a"))

	if err := v.WriteSecret([]byte("rec"), []byte("s3cr3t")); err != nil {
		t.Fatalf("WriteSecret: %v", err)
	}

	got, err := v.ReadSecret([]byte("rec"))
	if err != nil {
		t.Fatalf("ReadSecret: %v", err)
	}

	if !bytes.Equal(got, []byte("s3cr3t")) {
		t.Errorf("ReadSecret() = %q, want %q", got, "s3cr3t")
	}

	if !c.VaultExists([]byte("vault-a")) {
		t.Errorf("expected vault to exist after a write")
	}

	loc := ids.Generic([]byte("vault-a"), []byte("rec"))
	if !c.RecordExists(loc) {
		t.Errorf("expected record to exist after a write")
	}
}

func TestClient_DeleteSecret(t *testing.T) {
	c := newClient(t)
	v := c.Vault([]byte("vault-a"))

	if err := v.WriteSecret([]byte("rec"), []byte("x")); err != nil {
		t.Fatalf("WriteSecret: %v", err)
	}

	ok, err := v.DeleteSecret([]byte("rec"))
	if err != nil {
		t.Fatalf("DeleteSecret: %v", err)
	}

	if !ok {
		t.Errorf("DeleteSecret() = false, want true for an existing record")
	}

	loc := ids.Generic([]byte("vault-a"), []byte("rec"))
	if c.RecordExists(loc) {
		t.Errorf("expected record to no longer exist after DeleteSecret")
	}

	ok, err = v.DeleteSecret([]byte("rec"))
	if err != nil {
		t.Fatalf("DeleteSecret (second): %v", err)
	}

	if ok {
		t.Errorf("DeleteSecret() on an already-deleted record = true, want false")
	}
}

func TestClient_RevokeSecret_IsLogicalOnly(t *testing.T) {
	c := newClient(t)
	v := c.Vault([]byte("vault-a"))

	if err := v.WriteSecret([]byte("rec"), []byte("x")); err != nil {
		t.Fatalf("WriteSecret: %v", err)
	}

	if err := v.RevokeSecret([]byte("rec")); err != nil {
		t.Fatalf("RevokeSecret: %v", err)
	}

	loc := ids.Generic([]byte("vault-a"), []byte("rec"))
	if c.RecordExists(loc) {
		t.Errorf("expected record to no longer be live after RevokeSecret")
	}
}

func TestClient_SyncWith(t *testing.T) {
	source := newClient(t)
	if err := source.Vault([]byte("vault-a")).WriteSecret([]byte("rec"), []byte("from-source")); err != nil {
		t.Fatalf("WriteSecret: %v", err)
	}

	target := newClient(t)

	if err := target.SyncWith(source, syncengine.ClientConfig{}); err != nil {
		t.Fatalf("SyncWith: %v", err)
	}

	got, err := target.Vault([]byte("vault-a")).ReadSecret([]byte("rec"))
	if err != nil {
		t.Fatalf("ReadSecret after sync: %v", err)
	}

	if !bytes.Equal(got, []byte("from-source")) {
		t.Errorf("ReadSecret after sync = %q, want %q", got, "from-source")
	}
}

func TestClient_Store(t *testing.T) {
	c := newClient(t)
	ctx := t.Context()

	if err := c.Store().Insert(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := c.Store().Get(ctx, []byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get() = %q, want %q", got, "v")
	}
}
