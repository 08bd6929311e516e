package procedure

import (
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/vault"
)

// WriteVault writes Data to Location directly, creating the vault and key
// on first use. Unlike the other procedures, its input is a literal byte
// slice rather than a location-addressed secret.
type WriteVault struct {
	Data     []byte
	Location ids.Location
}

func (p WriteVault) outputs() []ids.Location { return []ids.Location{p.Location} }

func (p WriteVault) execute(r *runtime) ([]byte, error) {
	if err := r.writeSecret(p.Location, p.Data); err != nil {
		return nil, err
	}

	return nil, nil
}

// CopyRecord reads the secret at Source and writes a copy to Target,
// re-encrypting it under Target's vault key.
type CopyRecord struct {
	Source ids.Location
	Target ids.Location
}

func (p CopyRecord) outputs() []ids.Location { return []ids.Location{p.Target} }

func (p CopyRecord) execute(r *runtime) ([]byte, error) {
	secret, err := r.readSecret(p.Source)
	if err != nil {
		return nil, err
	}

	if err := r.writeSecret(p.Target, secret); err != nil {
		return nil, err
	}

	return nil, nil
}

// RevokeData tombstones the record at Location. If ShouldGC is set, the
// vault is immediately garbage-collected afterward, physically removing it.
type RevokeData struct {
	Location ids.Location
	ShouldGC bool
}

func (RevokeData) outputs() []ids.Location { return nil }

func (p RevokeData) execute(r *runtime) ([]byte, error) {
	vid, rid := p.Location.Resolve()

	if !r.state.DbView.ContainsVault(vid) {
		return nil, ErrVaultMissing
	}

	if err := r.state.DbView.Revoke(vid, vault.RevokeRequest{RecordID: rid}); err != nil {
		return nil, fatalf("revoke data", err)
	}

	if p.ShouldGC {
		if err := r.state.DbView.GC(vid); err != nil {
			return nil, fatalf("revoke data: gc", err)
		}
	}

	return nil, nil
}

// GarbageCollect compacts the vault named by VaultPath to only its live
// records.
type GarbageCollect struct {
	VaultPath []byte
}

func (GarbageCollect) outputs() []ids.Location { return nil }

func (p GarbageCollect) execute(r *runtime) ([]byte, error) {
	vid := ids.DeriveVaultID(p.VaultPath)

	if !r.state.DbView.ContainsVault(vid) {
		return nil, ErrVaultMissing
	}

	if err := r.state.DbView.GC(vid); err != nil {
		return nil, fatalf("garbage collect", err)
	}

	return nil, nil
}
