// Package client implements ClientState and the Client facade: the
// namespace grouping a keystore, a vault view and a per-client store, and
// the methods (Vault, Store, RecordExists, VaultExists,
// ExecuteProcedure[Chained], SyncWith) that operate on it.
package client

import (
	"context"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/kvstore"
	"github.com/stronghold-go/stronghold/vault"
)

// Client is a namespace grouping vaults and a key-value store: the caller's
// handle for every secret and procedure operation.
type Client struct {
	ID       ids.ClientID
	Path     []byte
	provider boxprovider.BoxProvider
	state    *State
}

// New creates a fresh, empty [Client] for the given path.
func New(ctx context.Context, path []byte, provider boxprovider.BoxProvider) (*Client, error) {
	state, err := newState(ctx, provider)
	if err != nil {
		return nil, err
	}

	return &Client{
		ID:       ids.DeriveClientID(path),
		Path:     append([]byte(nil), path...),
		provider: provider,
		state:    state,
	}, nil
}

// FromState wraps an already-assembled [State] (e.g. restored from a
// snapshot, or produced by sync) into a usable [Client].
func FromState(path []byte, provider boxprovider.BoxProvider, state *State) *Client {
	return &Client{
		ID:       ids.DeriveClientID(path),
		Path:     append([]byte(nil), path...),
		provider: provider,
		state:    state,
	}
}

// State returns the client's underlying (KeyStore, DbView, Store) triple,
// for use by the snapshot codec and the sync engine.
func (c *Client) State() *State { return c.state }

// Store returns the client's per-client TTL'd key-value store.
func (c *Client) Store() *kvstore.Store { return c.state.Store }

// Vault returns a handle bound to the vault addressed by path, deriving its
// [ids.VaultID] the way [ids.Location] does.
func (c *Client) Vault(path []byte) *VaultHandle {
	return &VaultHandle{
		client:    c,
		vaultPath: append([]byte(nil), path...),
		vid:       ids.DeriveVaultID(path),
	}
}

// VaultExists reports whether the vault addressed by path has been
// initialized.
func (c *Client) VaultExists(path []byte) bool {
	return c.state.DbView.ContainsVault(ids.DeriveVaultID(path))
}

// RecordExists reports whether loc resolves to a live record.
func (c *Client) RecordExists(loc ids.Location) bool {
	vid, rid := loc.Resolve()
	return c.state.DbView.ContainsRecord(vid, rid)
}

// VaultHandle scopes vault operations to one vault path, resolving record
// paths against it the way [ids.Location] does.
type VaultHandle struct {
	client    *Client
	vaultPath []byte
	vid       ids.VaultID
}

// WriteSecret seals data under a fresh or existing key for the handle's
// vault and writes it at recordPath, generating the vault key on first use.
// An optional hint may be supplied; it defaults to the zero hint.
func (h *VaultHandle) WriteSecret(recordPath, data []byte, hint ...ids.RecordHint) error {
	rid := ids.DeriveRecordID(h.vaultPath, recordPath)

	var recordHint ids.RecordHint
	if len(hint) > 0 {
		recordHint = hint[0]
	}

	buf, err := h.client.state.KeyStore.GetOrInsertKey(h.vid, func() ([]byte, error) {
		key := make([]byte, h.client.provider.KeyLen())
		if err := h.client.provider.RandomBytes(key); err != nil {
			return nil, err
		}

		return key, nil
	})
	if err != nil {
		return err
	}

	return buf.With(func(key []byte) error {
		return h.client.state.DbView.Write(key, h.vid, vault.WriteRequest{
			RecordID: rid,
			Hint:     recordHint,
			Secret:   data,
		})
	})
}

// RevokeSecret logically deletes recordPath: a subsequent read or listing
// will not see it, but its bytes remain in the log until a
// [VaultHandle.GarbageCollect].
func (h *VaultHandle) RevokeSecret(recordPath []byte) error {
	rid := ids.DeriveRecordID(h.vaultPath, recordPath)
	return h.client.state.DbView.Revoke(h.vid, vault.RevokeRequest{RecordID: rid})
}

// DeleteSecret revokes recordPath and immediately garbage-collects the
// vault, physically removing it. It reports whether the record was live
// beforehand.
func (h *VaultHandle) DeleteSecret(recordPath []byte) (bool, error) {
	rid := ids.DeriveRecordID(h.vaultPath, recordPath)

	if !h.client.state.DbView.ContainsRecord(h.vid, rid) {
		return false, nil
	}

	if err := h.client.state.DbView.Revoke(h.vid, vault.RevokeRequest{RecordID: rid}); err != nil {
		return false, err
	}

	if err := h.client.state.DbView.GC(h.vid); err != nil {
		return false, err
	}

	return true, nil
}

// GarbageCollect compacts the handle's vault to only its live records.
func (h *VaultHandle) GarbageCollect() error {
	return h.client.state.DbView.GC(h.vid)
}
