// Package stronghold implements the process-wide facade: a registry of
// [client.Client] handles plus the in-memory snapshot staging area for the
// next commit or the last load.
//
// Lock ordering is snapshot -> clients -> (keystore, db, store); every
// method that touches more than one of these acquires them in that order
// and never the reverse.
package stronghold

import (
	"context"
	"sync"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/kvstore"
	"github.com/stronghold-go/stronghold/snapshot"
)

// Stronghold is the top-level handle a caller obtains to create or load
// clients and to commit/restore the registry to/from a snapshot file.
type Stronghold struct {
	ctx      context.Context
	provider boxprovider.BoxProvider

	clients *safeMap[ids.ClientID, *client.Client]

	snapMu   sync.RWMutex
	snapshot []snapshot.ClientEntry

	// store is process-wide scratch, distinct from each client's own
	// per-client Store (client.State.Store).
	store *kvstore.Store
}

// New builds an empty Stronghold with no clients and no staged snapshot.
// ctx bounds every subsequent kvstore schema migration the facade performs,
// on behalf of itself or of any client it creates or restores.
func New(ctx context.Context) (*Stronghold, error) {
	store, err := kvstore.New(ctx)
	if err != nil {
		return nil, inner("new", err)
	}

	return &Stronghold{
		ctx:      ctx,
		provider: boxprovider.New(),
		clients:  newSafeMap[ids.ClientID, *client.Client](),
		store:    store,
	}, nil
}

// Store returns the facade's process-wide key-value store.
func (s *Stronghold) Store() *kvstore.Store { return s.store }

// Clear empties the client registry and discards the snapshot staging area,
// without touching any on-disk snapshot file.
func (s *Stronghold) Clear() {
	s.clients.clear()

	s.snapMu.Lock()
	s.snapshot = nil
	s.snapMu.Unlock()
}
