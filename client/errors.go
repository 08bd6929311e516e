package client

import "errors"

var (
	// ErrClientDataNotPresent is returned by operations that require an
	// already-registered client path.
	ErrClientDataNotPresent = errors.New("client: client data not present")

	// ErrVaultMissing names an operation on a vault that has never been
	// written to. No function in this package returns it; vault handle
	// operations on such a vault surface the vault package's errors instead.
	ErrVaultMissing = errors.New("client: vault missing")
)
