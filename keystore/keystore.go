// Package keystore holds the process-local mapping from a [ids.VaultID] to
// the vault key used to open it. Keys are held in [secretbuf.Buffer]s so
// they stay best-effort memory-locked and zeroize on removal.
package keystore

import (
	"fmt"
	"sync"

	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/secretbuf"
)

// KeyStore is a concurrency-safe VaultID -> key map. The zero value is not
// usable; construct one with [New].
type KeyStore struct {
	mu   sync.RWMutex
	keys map[ids.VaultID]*secretbuf.Buffer
}

// New creates an empty [KeyStore].
func New() *KeyStore {
	return &KeyStore{keys: make(map[ids.VaultID]*secretbuf.Buffer)}
}

// InsertKey stores a copy of key for vid, replacing and releasing any
// existing entry.
func (k *KeyStore) InsertKey(vid ids.VaultID, key []byte) {
	buf := secretbuf.New(key)

	k.mu.Lock()
	defer k.mu.Unlock()

	if old, ok := k.keys[vid]; ok {
		old.Release()
	}

	k.keys[vid] = buf
}

// GetOrInsertKey returns the existing key for vid, or calls generate to
// produce one, stores it, and returns it. generate is only invoked when no
// key is already present.
func (k *KeyStore) GetOrInsertKey(vid ids.VaultID, generate func() ([]byte, error)) (*secretbuf.Buffer, error) {
	k.mu.RLock()
	if buf, ok := k.keys[vid]; ok {
		k.mu.RUnlock()
		return buf, nil
	}
	k.mu.RUnlock()

	k.mu.Lock()
	defer k.mu.Unlock()

	if buf, ok := k.keys[vid]; ok {
		return buf, nil
	}

	key, err := generate()
	if err != nil {
		return nil, fmt.Errorf("keystore: generate key for %s: %w", vid, err)
	}

	buf := secretbuf.New(key)
	k.keys[vid] = buf

	return buf, nil
}

// ErrKeyNotFound is returned by [KeyStore.With] when vid has no stored key.
var ErrKeyNotFound = fmt.Errorf("keystore: key not found")

// With invokes f with vid's key, or returns [ErrKeyNotFound] if none is
// stored. f must not retain the slice passed to it beyond the call.
func (k *KeyStore) With(vid ids.VaultID, f func(key []byte) error) error {
	k.mu.RLock()
	buf, ok := k.keys[vid]
	k.mu.RUnlock()

	if !ok {
		return ErrKeyNotFound
	}

	return buf.With(f)
}

// ContainsKey reports whether vid has a stored key.
func (k *KeyStore) ContainsKey(vid ids.VaultID) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()

	_, ok := k.keys[vid]

	return ok
}

// RemoveKey releases and discards vid's key, if any.
func (k *KeyStore) RemoveKey(vid ids.VaultID) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if buf, ok := k.keys[vid]; ok {
		buf.Release()
		delete(k.keys, vid)
	}
}

// Rebuild atomically replaces the entire contents of the keystore with
// keys, releasing every previously held key first. It is used when loading
// a snapshot: the keystore that existed before the load must not survive
// it.
func (k *KeyStore) Rebuild(keys map[ids.VaultID][]byte) {
	buffers := make(map[ids.VaultID]*secretbuf.Buffer, len(keys))
	for vid, key := range keys {
		buffers[vid] = secretbuf.New(key)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	for _, old := range k.keys {
		old.Release()
	}

	k.keys = buffers
}

// ExportAll returns a copy of every stored key, keyed by vault id, for use
// by the snapshot codec. The returned slices are independent copies; they do
// not alias the keystore's guarded buffers.
func (k *KeyStore) ExportAll() map[ids.VaultID][]byte {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make(map[ids.VaultID][]byte, len(k.keys))

	for vid, buf := range k.keys {
		_ = buf.With(func(key []byte) error {
			cp := make([]byte, len(key))
			copy(cp, key)
			out[vid] = cp

			return nil
		})
	}

	return out
}

// VaultIDs returns every vault id currently holding a key, in no particular
// order.
func (k *KeyStore) VaultIDs() []ids.VaultID {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]ids.VaultID, 0, len(k.keys))
	for vid := range k.keys {
		out = append(out, vid)
	}

	return out
}

// Clear releases every key and empties the keystore.
func (k *KeyStore) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, buf := range k.keys {
		buf.Release()
	}

	k.keys = make(map[ids.VaultID]*secretbuf.Buffer)
}
