//go:build strongholdtesthooks

package stronghold_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/stronghold"
)

func newFacade(t *testing.T) *stronghold.Stronghold {
	t.Helper()

	s, err := stronghold.New(t.Context())
	if err != nil {
		t.Fatalf("stronghold.New: %v", err)
	}

	return s
}

func TestCreateGetPurgeClient(t *testing.T) {
	s := newFacade(t)

	path := []byte("client-a")

	c, err := s.CreateClient(path)
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	got, err := s.GetClient(path)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}

	if got.ID != c.ID {
		t.Errorf("GetClient returned a different client id")
	}

	if err := s.PurgeClient(c); err != nil {
		t.Fatalf("PurgeClient: %v", err)
	}

	if _, err := s.GetClient(path); err != client.ErrClientDataNotPresent {
		t.Errorf("GetClient after purge = %v, want ErrClientDataNotPresent", err)
	}
}

func TestCommitAndLoadSnapshotRoundTrip(t *testing.T) {
	s := newFacade(t)

	path := []byte("client-a")

	c, err := s.CreateClient(path)
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	v := c.Vault([]byte("vault-a"))
	if err := v.WriteSecret([]byte("rec"), []byte("s3cr3t")); err != nil {
		t.Fatalf("WriteSecret: %v", err)
	}

	snapPath := filepath.Join(t.TempDir(), "nested", "snapshot.bin")
	key := make([]byte, 32)

	if err := s.Commit(snapPath, key); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	s.Clear()

	if _, err := s.GetClient(path); err != client.ErrClientDataNotPresent {
		t.Fatalf("expected client gone after Clear, got %v", err)
	}

	if err := s.LoadSnapshot(snapPath, key); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	restored, err := s.GetClient(path)
	if err != nil {
		t.Fatalf("GetClient after load: %v", err)
	}

	got, err := restored.Vault([]byte("vault-a")).ReadSecret([]byte("rec"))
	if err != nil {
		t.Fatalf("ReadSecret after load: %v", err)
	}

	if !bytes.Equal(got, []byte("s3cr3t")) {
		t.Errorf("ReadSecret() = %q, want %q", got, "s3cr3t")
	}
}

func TestLoadClientFromSnapshotLoadsOnlyRequestedClient(t *testing.T) {
	s := newFacade(t)

	pathA := []byte("client-a")
	pathB := []byte("client-b")

	if _, err := s.CreateClient(pathA); err != nil {
		t.Fatalf("CreateClient a: %v", err)
	}

	cb, err := s.CreateClient(pathB)
	if err != nil {
		t.Fatalf("CreateClient b: %v", err)
	}

	if err := cb.Vault([]byte("vault-b")).WriteSecret([]byte("rec"), []byte("bbb")); err != nil {
		t.Fatalf("WriteSecret: %v", err)
	}

	snapPath := filepath.Join(t.TempDir(), "snapshot.bin")
	key := make([]byte, 32)

	if err := s.Commit(snapPath, key); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	fresh := newFacade(t)

	c, err := fresh.LoadClientFromSnapshot(pathB, key, snapPath)
	if err != nil {
		t.Fatalf("LoadClientFromSnapshot: %v", err)
	}

	if c.ID != cb.ID {
		t.Errorf("LoadClientFromSnapshot returned client %s, want %s", c.ID, cb.ID)
	}

	if _, err := fresh.GetClient(pathA); err != client.ErrClientDataNotPresent {
		t.Errorf("GetClient(pathA) = %v, want ErrClientDataNotPresent (not loaded)", err)
	}

	got, err := c.Vault([]byte("vault-b")).ReadSecret([]byte("rec"))
	if err != nil {
		t.Fatalf("ReadSecret: %v", err)
	}

	if !bytes.Equal(got, []byte("bbb")) {
		t.Errorf("ReadSecret() = %q, want %q", got, "bbb")
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	s := newFacade(t)

	err := s.LoadSnapshot(filepath.Join(t.TempDir(), "does-not-exist.bin"), make([]byte, 32))
	if err == nil {
		t.Fatalf("expected error for missing snapshot file")
	}
}

func TestWriteClientReplacesExisting(t *testing.T) {
	s := newFacade(t)

	path := []byte("client-a")

	c, err := s.CreateClient(path)
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	s.WriteClient(c)

	got, err := s.GetClient(path)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}

	if got.ID != c.ID {
		t.Errorf("GetClient after WriteClient returned a different client")
	}
}
