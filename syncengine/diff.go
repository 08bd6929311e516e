package syncengine

import (
	"fmt"

	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/keystore"
)

// Diff is the set of records a sync needs to copy, per source vault id.
type Diff map[ids.VaultID][]ids.RecordID

// GetDiff computes the records target is missing relative to source, per
// cfg: a record is included when it passes the select filters, and either
// the mapped target vault does not exist, the target record does not exist,
// or the target's blob id differs and cfg.MergePolicy is [Replace].
func GetDiff(target *State, source Hierarchy, cfg ClientConfig) (Diff, error) {
	diff := make(Diff)

	for vid, list := range source {
		if !cfg.vaultSelected(vid) {
			continue
		}

		mappedVid := cfg.mappedVault(vid)

		if !target.DbView.ContainsVault(mappedVid) {
			rids := make([]ids.RecordID, 0, len(list))
			for _, e := range list {
				if cfg.recordSelected(vid, e.RecordID) {
					rids = append(rids, e.RecordID)
				}
			}

			diff[vid] = rids

			continue
		}

		var recordDiff []ids.RecordID

		for _, e := range list {
			if !cfg.recordSelected(vid, e.RecordID) {
				continue
			}

			if !target.DbView.ContainsRecord(mappedVid, e.RecordID) {
				recordDiff = append(recordDiff, e.RecordID)
				continue
			}

			if cfg.MergePolicy == KeepOld {
				continue
			}

			same, err := blobIDMatches(target, mappedVid, e)
			if err != nil {
				return nil, err
			}

			if same {
				continue
			}

			recordDiff = append(recordDiff, e.RecordID)
		}

		diff[vid] = recordDiff
	}

	return diff, nil
}

func blobIDMatches(target *State, mappedVid ids.VaultID, e RecordBlobEntry) (bool, error) {
	var match bool

	err := target.KeyStore.With(mappedVid, func(key []byte) error {
		got, err := target.DbView.GetBlobID(key, mappedVid, e.RecordID)
		if err != nil {
			return err
		}

		match = got == e.BlobID

		return nil
	})

	switch {
	case err == keystore.ErrKeyNotFound:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("syncengine: get diff: blob id for %s: %w", e.RecordID, err)
	}

	return match, nil
}
