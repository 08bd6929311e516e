package syncengine

import (
	"fmt"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/vault"
)

// ErrMissingSourceKey is returned when a vault selected for sync has no key
// in the source client's keystore, so its records cannot be decrypted for
// re-encryption under the target's key.
var ErrMissingSourceKey = fmt.Errorf("syncengine: missing source key")

// Export is the sealed (still source-key-encrypted) records selected by a
// [Diff], per source vault id.
type Export map[ids.VaultID][]vault.Record

// ExportEntries seals-to-export the records named by diff, performing no
// decryption or re-encryption.
func ExportEntries(source *State, diff Diff) (Export, error) {
	export := make(Export, len(diff))

	for vid, rids := range diff {
		records, err := source.DbView.ExportRecords(vid, rids)
		if err != nil {
			return nil, fmt.Errorf("syncengine: export entries for vault %s: %w", vid, err)
		}

		export[vid] = records
	}

	return export, nil
}

// Sync copies every record [GetDiff] reports target is missing relative to
// source into target, re-encrypting each under target's (possibly freshly
// generated) key for the mapped vault.
//
// Sync is not transactional across vaults: if import fails for vault V,
// vaults already imported before V stay modified in target. This is
// deliberate: a partial sync is more useful to the caller than an all-or-
// nothing rollback of work already done.
func Sync(provider boxprovider.BoxProvider, target, source *State, cfg ClientConfig) error {
	sourceHierarchy, err := GetHierarchy(source, cfg.SelectVaults)
	if err != nil {
		return err
	}

	diff, err := GetDiff(target, sourceHierarchy, cfg)
	if err != nil {
		return err
	}

	export, err := ExportEntries(source, diff)
	if err != nil {
		return err
	}

	for vid, records := range export {
		if len(records) == 0 {
			continue
		}

		mappedVid := cfg.mappedVault(vid)

		if err := importVault(provider, target, source, vid, mappedVid, records); err != nil {
			return fmt.Errorf("syncengine: sync vault %s -> %s: %w", vid, mappedVid, err)
		}
	}

	return nil
}

func importVault(provider boxprovider.BoxProvider, target, source *State, sourceVid, targetVid ids.VaultID, records []vault.Record) error {
	var oldKey []byte

	err := source.KeyStore.With(sourceVid, func(key []byte) error {
		oldKey = append([]byte(nil), key...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingSourceKey, sourceVid)
	}

	newKeyBuf, err := target.KeyStore.GetOrInsertKey(targetVid, func() ([]byte, error) {
		key := make([]byte, provider.KeyLen())
		if err := provider.RandomBytes(key); err != nil {
			return nil, err
		}

		return key, nil
	})
	if err != nil {
		return err
	}

	return newKeyBuf.With(func(newKey []byte) error {
		return target.DbView.ImportRecords(oldKey, newKey, sourceVid, targetVid, records)
	})
}

// SyncClients layers [Sync] across every selected client in sources,
// matching each against the identically- or mapped-id client already
// present in targets. A source client with no counterpart in targets is
// skipped, mirroring a snapshot sync that never creates new clients.
func SyncClients(provider boxprovider.BoxProvider, targets, sources map[ids.ClientID]*State, cfg SnapshotConfig) error {
	for cid, sourceState := range sources {
		if !cfg.clientSelected(cid) {
			continue
		}

		mappedCid := cfg.mappedClient(cid)

		targetState, ok := targets[mappedCid]
		if !ok {
			continue
		}

		if err := Sync(provider, targetState, sourceState, cfg.configFor(cid)); err != nil {
			return fmt.Errorf("syncengine: sync client %s -> %s: %w", cid, mappedCid, err)
		}
	}

	return nil
}
