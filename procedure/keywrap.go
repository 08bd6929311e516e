package procedure

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"

	"github.com/stronghold-go/stronghold/ids"
)

// kwIV is the RFC 3394 default initial value: the starting content of the
// integrity check register A before wrapping, and verified against after
// unwrapping.
var kwIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// aesKeyWrap implements RFC 3394 AES Key Wrap. plaintext must be a multiple
// of 8 bytes and at least 16.
func aesKeyWrap(kek, plaintext []byte) ([]byte, error) {
	if len(plaintext)%8 != 0 || len(plaintext) < 16 {
		return nil, fmt.Errorf("procedure: aes key wrap: plaintext length %d not a multiple of 8 (>=16)", len(plaintext))
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := len(plaintext) / 8

	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], plaintext[i*8:(i+1)*8])
	}

	a := kwIV

	buf := make([]byte, 16)

	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			copy(buf[:8], a[:])
			copy(buf[8:], r[i-1][:])

			block.Encrypt(buf, buf)

			copy(a[:], buf[:8])

			t := uint64(n*j + i)
			xorUint64(&a, t)

			copy(r[i-1][:], buf[8:])
		}
	}

	out := make([]byte, 0, 8+len(plaintext))
	out = append(out, a[:]...)

	for i := 0; i < n; i++ {
		out = append(out, r[i][:]...)
	}

	return out, nil
}

// aesKeyUnwrap reverses [aesKeyWrap], verifying the integrity register
// against [kwIV].
func aesKeyUnwrap(kek, wrapped []byte) ([]byte, error) {
	if len(wrapped)%8 != 0 || len(wrapped) < 24 {
		return nil, fmt.Errorf("procedure: aes key unwrap: ciphertext length %d invalid", len(wrapped))
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := len(wrapped)/8 - 1

	var a [8]byte
	copy(a[:], wrapped[:8])

	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], wrapped[8+i*8:8+(i+1)*8])
	}

	buf := make([]byte, 16)

	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			t := uint64(n*j + i)
			xorUint64(&a, t)

			copy(buf[:8], a[:])
			copy(buf[8:], r[i-1][:])

			block.Decrypt(buf, buf)

			copy(a[:], buf[:8])
			copy(r[i-1][:], buf[8:])
		}
	}

	if a != kwIV {
		return nil, fmt.Errorf("procedure: aes key unwrap: integrity check failed")
	}

	out := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, r[i][:]...)
	}

	return out, nil
}

func xorUint64(a *[8]byte, t uint64) {
	var tb [8]byte
	binary.BigEndian.PutUint64(tb[:], t)

	for i := range a {
		a[i] ^= tb[i]
	}
}

// AesKeyWrapEncrypt wraps the secret at WrapKey's location under the key at
// EncryptionKey's location (RFC 3394), returning the wrapped ciphertext
// directly rather than writing it to a location.
type AesKeyWrapEncrypt struct {
	Cipher        AesKeyWrapCipher
	EncryptionKey ids.Location
	WrapKey       ids.Location
}

func (AesKeyWrapEncrypt) outputs() []ids.Location { return nil }

func (p AesKeyWrapEncrypt) execute(r *runtime) ([]byte, error) {
	kek, err := r.readSecret(p.EncryptionKey)
	if err != nil {
		return nil, err
	}

	plaintext, err := r.readSecret(p.WrapKey)
	if err != nil {
		return nil, err
	}

	wrapped, err := aesKeyWrap(kek, plaintext)
	if err != nil {
		return nil, fatalf("aes key wrap encrypt", err)
	}

	return wrapped, nil
}

// AesKeyWrapDecrypt unwraps WrappedKey under the key at DecryptionKey's
// location and writes the recovered key to Output.
type AesKeyWrapDecrypt struct {
	Cipher        AesKeyWrapCipher
	DecryptionKey ids.Location
	WrappedKey    []byte
	Output        ids.Location
}

func (p AesKeyWrapDecrypt) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p AesKeyWrapDecrypt) execute(r *runtime) ([]byte, error) {
	kek, err := r.readSecret(p.DecryptionKey)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesKeyUnwrap(kek, p.WrappedKey)
	if err != nil {
		return nil, fatalf("aes key wrap decrypt", err)
	}

	if err := r.writeSecret(p.Output, plaintext); err != nil {
		return nil, err
	}

	return nil, nil
}
