// Package secretbuf implements the guarded buffer used everywhere plaintext
// secret material crosses a component boundary: vault keys, decrypted
// records, derived procedure inputs. A [Buffer] locks its backing pages when
// the platform allows it and zeroizes its contents when [Buffer.Release] is
// called.
package secretbuf

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer owns a byte slice containing secret material. Every method takes
// the buffer's own mutex, so calls on a shared Buffer are serialized.
type Buffer struct {
	mu       sync.Mutex
	data     []byte
	locked   bool
	released bool
}

// New copies src into a freshly allocated, best-effort locked [Buffer].
// The caller retains ownership of src; New does not zeroize it.
func New(src []byte) *Buffer {
	b := &Buffer{data: make([]byte, len(src))}
	copy(b.data, src)

	if err := unix.Mlock(b.data); err == nil {
		b.locked = true
	}

	return b
}

// Zero allocates an all-zero, best-effort locked [Buffer] of length n.
func Zero(n int) *Buffer {
	return New(make([]byte, n))
}

// Len returns the number of bytes held by the buffer.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.data)
}

// With invokes f with the buffer's plaintext while holding the buffer's
// lock. The slice passed to f is the buffer's own backing memory, not a
// copy, and must not be modified or retained beyond the call. With zeroizes
// nothing on return; only [Buffer.Release] does. The lock is released by a
// deferred unlock, so an error or panic from f does not leave it held.
func (b *Buffer) With(f func(plaintext []byte) error) (retErr error) {
	if b == nil {
		return fmt.Errorf("secretbuf: nil buffer")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return fmt.Errorf("secretbuf: use after release")
	}

	return f(b.data)
}

// Equal reports whether the buffer's plaintext is byte-equal to other, in
// constant time.
func (b *Buffer) Equal(other []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return subtle.ConstantTimeCompare(b.data, other) == 1
}

// Clone returns a new [Buffer] holding an independent copy of this one's
// plaintext.
func (b *Buffer) Clone() *Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()

	return New(b.data)
}

// Release zeroizes the buffer's backing memory and unlocks its pages. It is
// safe to call Release more than once. Callers must call Release on every
// exit path that obtained a Buffer; nothing does it for them.
func (b *Buffer) Release() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}

	zero(b.data)

	if b.locked {
		_ = unix.Munlock(b.data)
	}

	b.released = true
}

func zero(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
