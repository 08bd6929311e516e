package stronghold

import (
	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/ids"
)

// CreateClient builds a fresh, empty client for path and registers it.
func (s *Stronghold) CreateClient(path []byte) (*client.Client, error) {
	c, err := client.New(s.ctx, path, s.provider)
	if err != nil {
		return nil, inner("create_client", err)
	}

	s.clients.store(c.ID, c)

	return c, nil
}

// LoadClient resolves an already-registered client by path. It never touches
// disk; a client must first have been created, or restored by
// [Stronghold.LoadSnapshot] or [Stronghold.LoadClientFromSnapshot].
func (s *Stronghold) LoadClient(path []byte) (*client.Client, error) {
	return s.GetClient(path)
}

// GetClient is an alias of [Stronghold.LoadClient]; both simply look the
// path up in the registry.
func (s *Stronghold) GetClient(path []byte) (*client.Client, error) {
	cid := ids.DeriveClientID(path)

	c, ok := s.clients.load(cid)
	if !ok {
		return nil, client.ErrClientDataNotPresent
	}

	return c, nil
}

// PurgeClient removes c from the registry. It does not affect any snapshot
// already committed to disk.
func (s *Stronghold) PurgeClient(c *client.Client) error {
	if _, ok := s.clients.load(c.ID); !ok {
		return client.ErrClientDataNotPresent
	}

	s.clients.delete(c.ID)

	return nil
}

// WriteClient registers an already-built client (for example one
// reconstructed from a [client.State] produced by the sync engine),
// replacing any existing entry for the same id.
func (s *Stronghold) WriteClient(c *client.Client) {
	s.clients.store(c.ID, c)
}
