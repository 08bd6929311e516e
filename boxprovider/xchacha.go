package boxprovider

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// XChaCha20Poly1305 is the default [BoxProvider]: XChaCha20-Poly1305 with a
// fresh 24-byte random nonce per seal, prepended to the ciphertext, and a
// 16-byte Poly1305 tag appended by the AEAD construction itself.
//
// Tests in this repository are written against the [BoxProvider] interface,
// not this type, so any conforming provider can stand in for it (§4.1).
type XChaCha20Poly1305 struct{}

var _ BoxProvider = XChaCha20Poly1305{}

// New returns the default [BoxProvider].
func New() BoxProvider {
	return XChaCha20Poly1305{}
}

func (XChaCha20Poly1305) KeyLen() int { return chacha20poly1305.KeySize }

func (XChaCha20Poly1305) Overhead() int {
	return chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
}

func (p XChaCha20Poly1305) Seal(key, associatedData, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("boxprovider: new cipher: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if err := p.RandomBytes(nonce); err != nil {
		return nil, fmt.Errorf("boxprovider: nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, associatedData)

	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)

	return out, nil
}

func (XChaCha20Poly1305) Open(key, associatedData, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("boxprovider: new cipher: %w", err)
	}

	if len(ciphertext) < chacha20poly1305.NonceSizeX {
		return nil, ErrOpenFailed
	}

	nonce, sealed := ciphertext[:chacha20poly1305.NonceSizeX], ciphertext[chacha20poly1305.NonceSizeX:]

	plaintext, err := aead.Open(nil, nonce, sealed, associatedData)
	if err != nil {
		return nil, ErrOpenFailed
	}

	return plaintext, nil
}

func (XChaCha20Poly1305) RandomBytes(buf []byte) error {
	_, err := io.ReadFull(rand.Reader, buf)
	return err
}
