package stronghold

import (
	"context"
	"fmt"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/keystore"
	"github.com/stronghold-go/stronghold/kvstore"
	"github.com/stronghold-go/stronghold/snapshot"
	"github.com/stronghold-go/stronghold/vault"
)

// cloneClientEntry copies c's (KeyStore, DbView, Store) triple into a fresh
// [snapshot.ClientEntry] so that [Stronghold.Commit] can serialize it while
// c itself stays live and usable.
func cloneClientEntry(ctx context.Context, provider boxprovider.BoxProvider, cid ids.ClientID, c *client.Client) (snapshot.ClientEntry, error) {
	st := c.State()

	ks := keystore.New()
	ks.Rebuild(st.KeyStore.ExportAll())

	db := vault.New(provider)
	db.ImportAll(st.DbView.ExportAll())

	storeBytes, err := st.Store.Serialize()
	if err != nil {
		return snapshot.ClientEntry{}, fmt.Errorf("serialize store for client %s: %w", cid, err)
	}

	store, err := kvstore.NewFromSerialized(ctx, storeBytes)
	if err != nil {
		return snapshot.ClientEntry{}, fmt.Errorf("restore store for client %s: %w", cid, err)
	}

	return snapshot.ClientEntry{
		ID:   cid,
		Path: append([]byte(nil), c.Path...),
		State: &client.State{
			KeyStore: ks,
			DbView:   db,
			Store:    store,
		},
	}, nil
}
