// Package ids defines the fixed-width opaque identifiers used throughout the
// vault engine: client, vault and record identifiers, the content-addressed
// blob id used to compare records without decrypting them, and the Location
// pair that deterministically derives a (VaultId, RecordId) from caller-chosen
// path strings.
package ids

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// IDSize is the width, in bytes, of a [ClientID], [VaultID] or [RecordID].
const IDSize = 24

// BlobIDSize is the width, in bytes, of a [BlobID].
const BlobIDSize = 32

// HintSize is the width, in bytes, of a [RecordHint].
const HintSize = 24

// ClientID identifies the namespace grouping vaults and a store; the unit of
// snapshot and sync.
type ClientID [IDSize]byte

// VaultID identifies a single named container of encrypted records.
type VaultID [IDSize]byte

// RecordID identifies one versioned record inside a vault.
type RecordID [IDSize]byte

// BlobID is a content hash of a record's plaintext and hint, used to compare
// records for equality across vaults without decrypting them.
type BlobID [BlobIDSize]byte

// RecordHint is an opaque, caller-supplied tag attached to every record.
// The core never interprets its contents.
type RecordHint [HintSize]byte

func (id ClientID) String() string { return hex.EncodeToString(id[:]) }
func (id VaultID) String() string  { return hex.EncodeToString(id[:]) }
func (id RecordID) String() string { return hex.EncodeToString(id[:]) }
func (id BlobID) String() string   { return hex.EncodeToString(id[:]) }

// Bytes returns the raw backing bytes of the identifier.
func (id ClientID) Bytes() []byte { return id[:] }
func (id VaultID) Bytes() []byte  { return id[:] }
func (id RecordID) Bytes() []byte { return id[:] }

// Compare gives ClientID, VaultID and RecordID a total order over their raw
// bytes, used to canonicalize map iteration order in the snapshot codec.
func (id ClientID) Compare(other ClientID) int { return bytes.Compare(id[:], other[:]) }
func (id VaultID) Compare(other VaultID) int   { return bytes.Compare(id[:], other[:]) }
func (id RecordID) Compare(other RecordID) int { return bytes.Compare(id[:], other[:]) }

// ClientIDFromBytes converts a raw slice into a [ClientID].
func ClientIDFromBytes(b []byte) (ClientID, error) { return fromBytes[ClientID](b) }

// VaultIDFromBytes converts a raw slice into a [VaultID].
func VaultIDFromBytes(b []byte) (VaultID, error) { return fromBytes[VaultID](b) }

// RecordIDFromBytes converts a raw slice into a [RecordID].
func RecordIDFromBytes(b []byte) (RecordID, error) { return fromBytes[RecordID](b) }

func fromBytes[T ~[IDSize]byte](b []byte) (T, error) {
	var id T
	if len(b) != IDSize {
		return id, fmt.Errorf("ids: expected %d bytes, got %d", IDSize, len(b))
	}

	copy(id[:], b)

	return id, nil
}

// NewRecordHint builds a [RecordHint] from the given bytes, truncating or
// zero-padding to [HintSize].
func NewRecordHint(b []byte) RecordHint {
	var h RecordHint

	copy(h[:], b)

	return h
}

// Location is a pair (vault path, record path) that resolves deterministically
// to a (VaultID, RecordID) via [DeriveVaultID] and [DeriveRecordID].
type Location struct {
	VaultPath  []byte
	RecordPath []byte

	// counter, when non-nil, selects [DeriveRecordID] by a numeric counter
	// instead of a caller-chosen record path, mirroring Location::counter.
	counter *uint64
}

// Generic builds a [Location] addressed by an explicit record path.
func Generic(vaultPath, recordPath []byte) Location {
	return Location{VaultPath: vaultPath, RecordPath: recordPath}
}

// Counter builds a [Location] addressed by a numeric counter within vaultPath.
func Counter(vaultPath []byte, counter uint64) Location {
	c := counter
	return Location{VaultPath: vaultPath, counter: &c}
}

// Resolve derives the (VaultID, RecordID) pair this location refers to.
func (l Location) Resolve() (VaultID, RecordID) {
	vid := DeriveVaultID(l.VaultPath)

	if l.counter != nil {
		var buf [8]byte
		for i := range buf {
			buf[i] = byte(*l.counter >> (8 * i))
		}

		return vid, DeriveRecordID(l.VaultPath, buf[:])
	}

	return vid, DeriveRecordID(l.VaultPath, l.RecordPath)
}

// keyedHash derives a fixed-width id from (context, path) via a
// collision-resistant keyed BLAKE2b hash, truncated to n bytes.
func keyedHash(context, path []byte, n int) []byte {
	h, err := blake2b.New(64, context)
	if err != nil {
		// blake2b.New only fails when the key (context) exceeds 64 bytes;
		// context here is always a short fixed literal.
		panic(fmt.Sprintf("ids: keyed hash init: %v", err))
	}

	h.Write(path)
	sum := h.Sum(nil)

	return sum[:n]
}

var (
	clientIDContext = []byte("stronghold/client-id")
	vaultIDContext  = []byte("stronghold/vault-id")
	recordIDContext = []byte("stronghold/record-id")
)

// DeriveClientID derives a [ClientID] deterministically from a client path.
func DeriveClientID(clientPath []byte) ClientID {
	var id ClientID
	copy(id[:], keyedHash(clientIDContext, clientPath, IDSize))

	return id
}

// DeriveVaultID derives a [VaultID] deterministically from a vault path.
func DeriveVaultID(vaultPath []byte) VaultID {
	var id VaultID
	copy(id[:], keyedHash(vaultIDContext, vaultPath, IDSize))

	return id
}

// DeriveRecordID derives a [RecordID] deterministically from a (vault path,
// record path) pair, so the same pair always resolves to the same id.
func DeriveRecordID(vaultPath, recordPath []byte) RecordID {
	joined := make([]byte, 0, len(vaultPath)+1+len(recordPath))
	joined = append(joined, vaultPath...)
	joined = append(joined, 0) // separator: vaultPath and recordPath are not delimiter-free.
	joined = append(joined, recordPath...)

	var id RecordID
	copy(id[:], keyedHash(recordIDContext, joined, IDSize))

	return id
}

// ComputeBlobID hashes a record's plaintext and hint into a [BlobID]. Two
// records with byte-equal plaintext and hint always produce the same BlobID,
// letting callers compare records for equality without decrypting them.
func ComputeBlobID(plaintext []byte, hint RecordHint) BlobID {
	h, _ := blake2b.New256(nil)
	h.Write(plaintext)
	h.Write(hint[:])

	var id BlobID
	copy(id[:], h.Sum(nil))

	return id
}
