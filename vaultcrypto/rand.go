package vaultcrypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandBytes generates a slice of cryptographically secure random bytes of
// the specified length, suitable for a fresh Argon2id salt or an AEAD
// nonce/key.
func RandBytes(length int) ([]byte, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("vaultcrypto: rand bytes: %w", err)
	}

	return b, nil
}
