package procedure

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/stronghold-go/stronghold/ids"
)

const aeadTagLen = 16

func newAead(c AeadCipher, key []byte) (cipher.AEAD, error) {
	switch c {
	case Aes256Gcm:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}

		return cipher.NewGCM(block)
	case XChaCha20Poly1305:
		return chacha20poly1305.NewX(key)
	default:
		return nil, fmt.Errorf("procedure: unknown aead cipher %d", c)
	}
}

// AeadEncrypt seals Plaintext under the key at Key's location, authenticating
// AssociatedData with the given Nonce. The result is laid out tag (16
// bytes) followed by ciphertext, matching the procedure runner's reference
// AEAD primitives (which report ciphertext and tag separately).
type AeadEncrypt struct {
	Cipher         AeadCipher
	Key            ids.Location
	Plaintext      []byte
	AssociatedData []byte
	Nonce          []byte
}

func (AeadEncrypt) outputs() []ids.Location { return nil }

func (p AeadEncrypt) execute(r *runtime) ([]byte, error) {
	key, err := r.readSecret(p.Key)
	if err != nil {
		return nil, err
	}

	aead, err := newAead(p.Cipher, key)
	if err != nil {
		return nil, fatalf("aead encrypt", err)
	}

	sealed := aead.Seal(nil, p.Nonce, p.Plaintext, p.AssociatedData)
	split := len(sealed) - aeadTagLen
	ciphertext, tag := sealed[:split], sealed[split:]

	out := make([]byte, 0, len(sealed))
	out = append(out, tag...)
	out = append(out, ciphertext...)

	return out, nil
}

// AeadDecrypt reverses [AeadEncrypt]: given Ciphertext, Tag, AssociatedData
// and Nonce, it opens the box under the key at Key's location and returns
// the plaintext.
type AeadDecrypt struct {
	Cipher         AeadCipher
	Key            ids.Location
	Ciphertext     []byte
	AssociatedData []byte
	Tag            []byte
	Nonce          []byte
}

func (AeadDecrypt) outputs() []ids.Location { return nil }

func (p AeadDecrypt) execute(r *runtime) ([]byte, error) {
	key, err := r.readSecret(p.Key)
	if err != nil {
		return nil, err
	}

	aead, err := newAead(p.Cipher, key)
	if err != nil {
		return nil, fatalf("aead decrypt", err)
	}

	sealed := make([]byte, 0, len(p.Ciphertext)+len(p.Tag))
	sealed = append(sealed, p.Ciphertext...)
	sealed = append(sealed, p.Tag...)

	plaintext, err := aead.Open(nil, p.Nonce, sealed, p.AssociatedData)
	if err != nil {
		return nil, fatalf("aead decrypt", err)
	}

	return plaintext, nil
}
