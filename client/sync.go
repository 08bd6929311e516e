package client

import "github.com/stronghold-go/stronghold/syncengine"

// SyncWith imports into c every record source reports missing under cfg,
// re-encrypting each under c's key for the mapped vault.
func (c *Client) SyncWith(source *Client, cfg syncengine.ClientConfig) error {
	target := &syncengine.State{KeyStore: c.state.KeyStore, DbView: c.state.DbView}
	from := &syncengine.State{KeyStore: source.state.KeyStore, DbView: source.state.DbView}

	return syncengine.Sync(c.provider, target, from, cfg)
}
