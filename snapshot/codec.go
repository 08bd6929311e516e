// Package snapshot implements the encrypted snapshot file format: a
// versioned header, an ephemeral X25519 public key, an AEAD tag and the
// AEAD ciphertext of a compressed, canonically serialized ClientId ->
// ClientState map.
package snapshot

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"

	"github.com/stronghold-go/stronghold/boxprovider"
)

// Encode compresses and seals entries under key (a 32-byte X25519 private
// scalar, typically Argon2id-derived from a passphrase by the caller) and
// returns the complete file contents.
func Encode(key []byte, entries []ClientEntry) ([]byte, error) {
	if len(key) != pubKeySize {
		return nil, fmt.Errorf("snapshot: encode: key must be %d bytes, got %d", pubKeySize, len(key))
	}

	payload, err := serializeEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: serialize: %w", err)
	}

	compressed, err := compress(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: compress: %w", err)
	}

	pk, err := curve25519.X25519(key, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: derive public key: %w", err)
	}

	ephPriv := make([]byte, pubKeySize)
	if _, err := io.ReadFull(rand.Reader, ephPriv); err != nil {
		return nil, fmt.Errorf("snapshot: encode: ephemeral secret: %w", err)
	}

	ephPub, err := curve25519.X25519(ephPriv, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: ephemeral public key: %w", err)
	}

	shared, err := curve25519.X25519(ephPriv, pk)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: shared secret: %w", err)
	}

	nonce, err := sealNonce(ephPub, pk)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: nonce: %w", err)
	}

	aead, err := chacha20poly1305.NewX(shared)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: aead init: %w", err)
	}

	sealed := aead.Seal(nil, nonce, compressed, nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	out := make([]byte, 0, headerSize+len(ciphertext))
	out = append(out, magic[:]...)
	out = append(out, version[:]...)
	out = append(out, ephPub...)
	out = append(out, tag...)
	out = append(out, ciphertext...)

	return out, nil
}

// Decode reverses [Encode]: it verifies the header, decrypts with key, and
// deserializes the resulting payload into the entries it describes. provider
// is wired into every restored [client.State]'s [vault.DbView] so the
// client's vaults stay usable after load; ctx bounds the restored
// [kvstore.Store]'s schema migration.
func Decode(ctx context.Context, provider boxprovider.BoxProvider, key []byte, data []byte) ([]ClientEntry, error) {
	if len(key) != pubKeySize {
		return nil, fmt.Errorf("snapshot: decode: key must be %d bytes, got %d", pubKeySize, len(key))
	}

	if err := checkHeader(data); err != nil {
		return nil, err
	}

	ephPub := data[pubKeyOffset:tagOffset]
	tag := data[tagOffset:ciphOffset]
	ciphertext := data[ciphOffset:]

	pk, err := curve25519.X25519(key, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: derive public key: %w", err)
	}

	shared, err := curve25519.X25519(key, ephPub)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: shared secret: %w", err)
	}

	nonce, err := sealNonce(ephPub, pk)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: nonce: %w", err)
	}

	aead, err := chacha20poly1305.NewX(shared)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: aead init: %w", err)
	}

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	compressed, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	payload, err := decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: decompress: %w", err)
	}

	entries, err := deserializeEntries(ctx, provider, payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: deserialize: %w", err)
	}

	return entries, nil
}

// sealNonce derives the deterministic XChaCha20-Poly1305 nonce from the two
// public values (eph_pub, pk).
func sealNonce(ephPub, pk []byte) ([]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}

	h.Write(ephPub)
	h.Write(pk)

	sum := h.Sum(nil)

	return sum[:chacha20poly1305.NonceSizeX], nil
}

func compress(b []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	return enc.EncodeAll(b, nil), nil
}

func decompress(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return dec.DecodeAll(b, nil)
}
