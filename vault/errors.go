package vault

import "errors"

var (
	// ErrVaultNotFound is returned when an operation references a vault id
	// that has never been initialized.
	ErrVaultNotFound = errors.New("vault: vault not found")

	// ErrRecordNotFound is returned when an operation references a record id
	// with no live (non-revoked) entry in its vault.
	ErrRecordNotFound = errors.New("vault: record not found")

	// ErrChainBroken names a vault whose chain counters are not strictly
	// increasing in insertion order (invariant 2). No function in this
	// package checks the counters or returns it.
	ErrChainBroken = errors.New("vault: chain counter invariant violated")

	// ErrDecryptFailed is returned when a record fails to authenticate under
	// the vault key supplied to the call.
	ErrDecryptFailed = errors.New("vault: decrypt failed")

	// ErrBlobIDMismatch names a blob id that differs from an expected one.
	// No function in this package returns it; [DbView.ImportRecords] takes
	// no blob id expectation.
	ErrBlobIDMismatch = errors.New("vault: blob id mismatch")
)
