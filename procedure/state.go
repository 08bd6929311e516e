// Package procedure implements the closed set of cryptographic operations a
// caller can run against a client's vaults without ever observing raw
// secret bytes: key generation, signing, key derivation, AEAD, KDFs and
// vault plumbing, executed singly or chained with write-atomicity-within-a-
// chain via revoke-on-failure.
package procedure

import (
	"github.com/stronghold-go/stronghold/keystore"
	"github.com/stronghold-go/stronghold/vault"
)

// State is the (KeyStore, DbView) pair a procedure run operates on. It
// mirrors client.State minus Store: procedures only ever take vault-
// addressed inputs and outputs, never the per-client key-value store.
// Defined locally rather than imported from package client to avoid an
// import cycle (client.Client.ExecuteProcedure calls into this package),
// the same pattern used by package syncengine.
type State struct {
	KeyStore *keystore.KeyStore
	DbView   *vault.DbView
}
