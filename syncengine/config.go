// Package syncengine implements the hierarchy/diff synchronization
// protocol: computing which records a target client is missing relative to
// a source, and copying exactly those records under a configurable merge
// policy.
package syncengine

import "github.com/stronghold-go/stronghold/ids"

// MergePolicy is the rule applied when a record exists on both sides of a
// sync with different content.
type MergePolicy int

const (
	// Replace makes the source's bytes win on conflict. This is the zero
	// value, the sensible default for re-imports.
	Replace MergePolicy = iota
	// KeepOld retains the target's bytes on conflict.
	KeepOld
)

// ClientConfig parameterizes a single client-to-client sync.
type ClientConfig struct {
	// SelectVaults restricts the sync to these source vault ids. Nil means
	// every vault the source has a key for.
	SelectVaults []ids.VaultID

	// SelectRecords restricts, per source vault id, which record ids are
	// eligible. A vault id absent from this map is unrestricted.
	SelectRecords map[ids.VaultID][]ids.RecordID

	// MapVaults rewrites a source vault id to a target vault id. A vault
	// id absent from this map syncs to the same id on the target.
	MapVaults map[ids.VaultID]ids.VaultID

	MergePolicy MergePolicy
}

// SelectVaultPaths is a convenience that derives vault ids from raw vault
// paths and sets them as SelectVaults.
func (c *ClientConfig) SelectVaultPaths(vaultPaths ...[]byte) {
	out := make([]ids.VaultID, len(vaultPaths))
	for i, p := range vaultPaths {
		out[i] = deriveVaultID(p)
	}

	c.SelectVaults = out
}

// SelectRecordPaths is a convenience that restricts vaultPath's sync to the
// records addressed by recordPaths.
func (c *ClientConfig) SelectRecordPaths(vaultPath []byte, recordPaths ...[]byte) {
	if c.SelectRecords == nil {
		c.SelectRecords = make(map[ids.VaultID][]ids.RecordID)
	}

	vid := deriveVaultID(vaultPath)

	rids := make([]ids.RecordID, len(recordPaths))
	for i, p := range recordPaths {
		rids[i] = deriveRecordID(vaultPath, p)
	}

	c.SelectRecords[vid] = rids
}

// MapVaultPath is a convenience that maps the vault at sourcePath to the
// vault at targetPath.
func (c *ClientConfig) MapVaultPath(sourcePath, targetPath []byte) {
	if c.MapVaults == nil {
		c.MapVaults = make(map[ids.VaultID]ids.VaultID)
	}

	c.MapVaults[deriveVaultID(sourcePath)] = deriveVaultID(targetPath)
}

func (c ClientConfig) mappedVault(vid ids.VaultID) ids.VaultID {
	if mapped, ok := c.MapVaults[vid]; ok {
		return mapped
	}

	return vid
}

func (c ClientConfig) vaultSelected(vid ids.VaultID) bool {
	if c.SelectVaults == nil {
		return true
	}

	for _, v := range c.SelectVaults {
		if v == vid {
			return true
		}
	}

	return false
}

func (c ClientConfig) recordSelected(vid ids.VaultID, rid ids.RecordID) bool {
	selected, ok := c.SelectRecords[vid]
	if !ok {
		return true
	}

	for _, r := range selected {
		if r == rid {
			return true
		}
	}

	return false
}

// SnapshotConfig parameterizes a snapshot-level sync across multiple
// clients: the same algorithm as [ClientConfig] layered per client id.
type SnapshotConfig struct {
	// SelectClients restricts the sync to these source client ids. Nil
	// means every client present in the source set.
	SelectClients []ids.ClientID

	// ClientConfigs gives a source client id its own [ClientConfig]. A
	// client id absent from this map falls back to an unrestricted
	// [ClientConfig] carrying MergePolicy.
	ClientConfigs map[ids.ClientID]ClientConfig

	// MapClients rewrites a source client id to a target client id. A
	// client id absent from this map syncs to the same id on the target.
	MapClients map[ids.ClientID]ids.ClientID

	MergePolicy MergePolicy
}

func (s SnapshotConfig) mappedClient(cid ids.ClientID) ids.ClientID {
	if mapped, ok := s.MapClients[cid]; ok {
		return mapped
	}

	return cid
}

func (s SnapshotConfig) clientSelected(cid ids.ClientID) bool {
	if s.SelectClients == nil {
		return true
	}

	for _, c := range s.SelectClients {
		if c == cid {
			return true
		}
	}

	return false
}

func (s SnapshotConfig) configFor(cid ids.ClientID) ClientConfig {
	if cfg, ok := s.ClientConfigs[cid]; ok {
		return cfg
	}

	return ClientConfig{MergePolicy: s.MergePolicy}
}

func deriveVaultID(path []byte) ids.VaultID { return ids.DeriveVaultID(path) }

func deriveRecordID(vaultPath, recordPath []byte) ids.RecordID {
	return ids.DeriveRecordID(vaultPath, recordPath)
}
