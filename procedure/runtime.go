package procedure

import (
	"fmt"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/keystore"
	"github.com/stronghold-go/stronghold/vault"
)

// runtime bundles the state a running procedure needs: the (KeyStore,
// DbView) pair it reads and writes, and the BoxProvider used to mint fresh
// vault keys for locations written for the first time.
type runtime struct {
	state    *State
	provider boxprovider.BoxProvider
}

// readSecret resolves loc to a (vid, rid) pair and returns a private copy of
// its plaintext, implementing execute_procedure steps 1-2: assert the vault
// exists and acquire a get_guard for the record.
func (r *runtime) readSecret(loc ids.Location) ([]byte, error) {
	vid, rid := loc.Resolve()

	if !r.state.DbView.ContainsVault(vid) {
		return nil, fmt.Errorf("%w: vault %s", ErrVaultMissing, vid)
	}

	if !r.state.DbView.ContainsRecord(vid, rid) {
		return nil, fmt.Errorf("%w: record %s", ErrRecordMissing, rid)
	}

	var secret []byte

	err := r.state.KeyStore.With(vid, func(key []byte) error {
		return r.state.DbView.GetGuard(key, vid, rid, func(plaintext []byte) error {
			secret = append([]byte(nil), plaintext...)
			return nil
		})
	})

	switch {
	case err == keystore.ErrKeyNotFound:
		return nil, fmt.Errorf("%w: vault %s", ErrVaultMissing, vid)
	case err != nil:
		return nil, fatalf("read secret", err)
	}

	return secret, nil
}

// writeSecret implements execute_procedure step 4: write data into the
// record named by loc, creating the vault and minting a fresh key on first
// use, exactly as [client.VaultHandle.WriteSecret] does.
func (r *runtime) writeSecret(loc ids.Location, data []byte) error {
	vid, rid := loc.Resolve()

	buf, err := r.state.KeyStore.GetOrInsertKey(vid, func() ([]byte, error) {
		key := make([]byte, r.provider.KeyLen())
		if err := r.provider.RandomBytes(key); err != nil {
			return nil, err
		}

		return key, nil
	})
	if err != nil {
		return fatalf("write secret", err)
	}

	return buf.With(func(key []byte) error {
		return r.state.DbView.Write(key, vid, vault.WriteRequest{RecordID: rid, Secret: data})
	})
}

// revokeSecret best-effort tombstones the record at loc; used to unwind the
// outputs of a chain's preceding steps after a later step fails.
func (r *runtime) revokeSecret(loc ids.Location) error {
	vid, rid := loc.Resolve()
	return r.state.DbView.Revoke(vid, vault.RevokeRequest{RecordID: rid})
}
