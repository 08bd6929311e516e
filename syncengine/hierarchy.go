package syncengine

import (
	"fmt"

	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/keystore"
	"github.com/stronghold-go/stronghold/vault"
)

// State is the (KeyStore, DbView) pair a sync operates on: the same shape
// as a client's ClientState, minus its Store (sync never touches the
// per-client cache).
type State struct {
	KeyStore *keystore.KeyStore
	DbView   *vault.DbView
}

// RecordBlobEntry pairs a record's id with its content-addressed blob id, so
// two hierarchies can be compared for equality without decrypting anything
// but the blob id field.
type RecordBlobEntry struct {
	RecordID ids.RecordID
	BlobID   ids.BlobID
}

// Hierarchy is the client hierarchy: a vault id mapped to the (record id,
// blob id) pairs it holds.
type Hierarchy map[ids.VaultID][]RecordBlobEntry

// GetHierarchy lists every live record's (id, blob id) pair for each vault
// in vaults that state holds a key for. vaults == nil means every
// initialized vault in state's view; a vault the keystore has no key for is
// silently skipped, matching a client that only ever reads vaults it can
// open.
func GetHierarchy(state *State, vaults []ids.VaultID) (Hierarchy, error) {
	if vaults == nil {
		vaults = state.DbView.VaultIDs()
	}

	hierarchy := make(Hierarchy, len(vaults))

	for _, vid := range vaults {
		var entries []RecordBlobEntry

		err := state.KeyStore.With(vid, func(key []byte) error {
			listing, err := state.DbView.ListRecordsWithBlobID(key, vid)
			if err != nil {
				return err
			}

			entries = make([]RecordBlobEntry, len(listing))
			for i, l := range listing {
				entries[i] = RecordBlobEntry{RecordID: l.RecordID, BlobID: l.BlobID}
			}

			return nil
		})

		switch {
		case err == keystore.ErrKeyNotFound:
			continue
		case err != nil:
			return nil, fmt.Errorf("syncengine: get hierarchy for vault %s: %w", vid, err)
		}

		hierarchy[vid] = entries
	}

	return hierarchy, nil
}
