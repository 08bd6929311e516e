// Package boxprovider defines the single cryptographic capability the vault
// engine needs from an AEAD primitive (§4.1: BoxProvider) and ships a default
// implementation backed by XChaCha20-Poly1305.
package boxprovider

import "errors"

// ErrOpenFailed is returned when a ciphertext fails to authenticate, either
// because it was tampered with or because it was sealed under a different
// key.
var ErrOpenFailed = errors.New("boxprovider: open failed")

// BoxProvider is the capability set every vault key and the snapshot codec
// build on: seal/open an AEAD box, report key and overhead sizes, and supply
// cryptographically secure random bytes.
type BoxProvider interface {
	// KeyLen is the length, in bytes, of the symmetric key this provider
	// expects.
	KeyLen() int

	// Overhead is the number of bytes a sealed box adds over the plaintext
	// (nonce length + authentication tag length).
	Overhead() int

	// Seal encrypts plaintext under key, authenticating associatedData.
	// The returned ciphertext is self-contained: the nonce this call
	// generated is prepended and the tag is appended, matching §4.1's
	// "24-byte random nonce prepended ... 16-byte tag appended" layout.
	Seal(key, associatedData, plaintext []byte) ([]byte, error)

	// Open decrypts a box produced by Seal under the same key and
	// associatedData. It returns [ErrOpenFailed] on truncation or tag
	// mismatch.
	Open(key, associatedData, ciphertext []byte) ([]byte, error)

	// RandomBytes fills buf with cryptographically secure random bytes.
	RandomBytes(buf []byte) error
}
