package stronghold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/snapshot"
)

// Commit drains every registered client's state into the snapshot staging
// area and atomically writes it to path under key: a read pass over the
// client registry produces clones (clients remain usable), then the write
// happens with the snapshot lock still held, serializing concurrent
// commits.
func (s *Stronghold) Commit(path string, key []byte) error {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	entries := make([]snapshot.ClientEntry, 0, s.clients.len())

	var drainErr error

	s.clients.rangeRead(func(cid ids.ClientID, c *client.Client) bool {
		entry, err := cloneClientEntry(s.ctx, s.provider, cid, c)
		if err != nil {
			drainErr = err
			return false
		}

		entries = append(entries, entry)

		return true
	})

	if drainErr != nil {
		return inner("commit", drainErr)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotFileMissing, err)
	}

	if err := snapshot.WriteFile(path, key, entries); err != nil {
		return inner("commit", err)
	}

	s.snapshot = entries

	return nil
}

// LoadSnapshot reads the snapshot file at path under key and replaces the
// entire client registry with the clients it describes.
func (s *Stronghold) LoadSnapshot(path string, key []byte) error {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotFileMissing, err)
	}

	entries, err := snapshot.ReadFile(s.ctx, s.provider, path, key)
	if err != nil {
		return inner("load_snapshot", err)
	}

	s.snapshot = entries

	clients := make(map[ids.ClientID]*client.Client, len(entries))
	for _, e := range entries {
		clients[e.ID] = client.FromState(e.Path, s.provider, e.State)
	}

	s.clients.replaceAll(clients)

	return nil
}

// LoadClientFromSnapshot reads the snapshot file at snapshotPath under key
// and registers only the single client addressed by path, leaving the rest
// of the registry untouched.
func (s *Stronghold) LoadClientFromSnapshot(path []byte, key []byte, snapshotPath string) (*client.Client, error) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	if _, err := os.Stat(snapshotPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFileMissing, err)
	}

	entries, err := snapshot.ReadFile(s.ctx, s.provider, snapshotPath, key)
	if err != nil {
		return nil, inner("load_client_from_snapshot", err)
	}

	s.snapshot = entries

	cid := ids.DeriveClientID(path)

	for _, e := range entries {
		if e.ID != cid {
			continue
		}

		c := client.FromState(e.Path, s.provider, e.State)
		s.clients.store(c.ID, c)

		return c, nil
	}

	return nil, client.ErrClientDataNotPresent
}
