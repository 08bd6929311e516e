package ids_test

import (
	"testing"

	"github.com/stronghold-go/stronghold/ids"
)

func TestDeriveVaultID_Deterministic(t *testing.T) {
	a := ids.DeriveVaultID([]byte("vault-a"))
	b := ids.DeriveVaultID([]byte("vault-a"))
	c := ids.DeriveVaultID([]byte("vault-b"))

	if a != b {
		t.Errorf("expected same vault path to derive the same id")
	}

	if a == c {
		t.Errorf("expected different vault paths to derive different ids")
	}
}

func TestDeriveClientID_Deterministic(t *testing.T) {
	a := ids.DeriveClientID([]byte("client-a"))
	b := ids.DeriveClientID([]byte("client-a"))
	c := ids.DeriveClientID([]byte("client-b"))

	if a != b {
		t.Errorf("expected same client path to derive the same id")
	}

	if a == c {
		t.Errorf("expected different client paths to derive different ids")
	}
}

func TestDeriveRecordID_DistinguishesVault(t *testing.T) {
	r1 := ids.DeriveRecordID([]byte("vault-a"), []byte("rec"))
	r2 := ids.DeriveRecordID([]byte("vault-b"), []byte("rec"))

	if r1 == r2 {
		t.Errorf("expected record id to depend on the owning vault path")
	}
}

func TestLocation_Resolve(t *testing.T) {
	loc := ids.Generic([]byte("v"), []byte("r"))

	vid, rid := loc.Resolve()

	wantVID := ids.DeriveVaultID([]byte("v"))
	wantRID := ids.DeriveRecordID([]byte("v"), []byte("r"))

	if vid != wantVID || rid != wantRID {
		t.Errorf("Resolve() = (%v, %v), want (%v, %v)", vid, rid, wantVID, wantRID)
	}
}

func TestLocation_Counter(t *testing.T) {
	l0 := ids.Counter([]byte("v"), 0)
	l1 := ids.Counter([]byte("v"), 1)

	_, r0 := l0.Resolve()
	_, r1 := l1.Resolve()

	if r0 == r1 {
		t.Errorf("expected different counters to resolve to different record ids")
	}
}

func TestComputeBlobID_EqualIffContentEqual(t *testing.T) {
	hint := ids.NewRecordHint([]byte("hint"))
	otherHint := ids.NewRecordHint([]byte("other"))

	b1 := ids.ComputeBlobID([]byte("secret"), hint)
	b2 := ids.ComputeBlobID([]byte("secret"), hint)
	b3 := ids.ComputeBlobID([]byte("secret"), otherHint)
	b4 := ids.ComputeBlobID([]byte("different"), hint)

	if b1 != b2 {
		t.Errorf("expected identical plaintext+hint to produce identical blob ids")
	}

	if b1 == b3 {
		t.Errorf("expected different hints to produce different blob ids")
	}

	if b1 == b4 {
		t.Errorf("expected different plaintext to produce different blob ids")
	}
}
