package client

import (
	"context"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/keystore"
	"github.com/stronghold-go/stronghold/kvstore"
	"github.com/stronghold-go/stronghold/vault"
)

// State is the triple (KeyStore, DbView, Store): the unit of snapshot and
// sync.
type State struct {
	KeyStore *keystore.KeyStore
	DbView   *vault.DbView
	Store    *kvstore.Store
}

// newState builds an empty [State] whose vault view uses provider.
func newState(ctx context.Context, provider boxprovider.BoxProvider) (*State, error) {
	store, err := kvstore.New(ctx)
	if err != nil {
		return nil, err
	}

	return &State{
		KeyStore: keystore.New(),
		DbView:   vault.New(provider),
		Store:    store,
	}, nil
}
