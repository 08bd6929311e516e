package vault

import "github.com/stronghold-go/stronghold/ids"

// Record is the on-disk shape of one committed entry in a vault's log. A
// write produces a live Record; a revoke produces a tombstone Record with
// Revoked set and no ciphertext.
type Record struct {
	RecordID     ids.RecordID
	ChainCounter uint64
	Hint         ids.RecordHint
	Nonce        []byte
	Ciphertext   []byte // AEAD-sealed (plaintext || BlobID); empty for a tombstone.
	Revoked      bool
}

// sealedPayload is the plaintext structure sealed inside Record.Ciphertext:
// the caller's secret bytes followed by the record's precomputed BlobID.
// Keeping BlobID inside the ciphertext lets [DbView.GetBlobID] recover it by
// decrypting without exposing the secret bytes to the caller.
type sealedPayload struct {
	secret []byte
	blobID ids.BlobID
}

func encodeSealedPayload(p sealedPayload) []byte {
	buf := make([]byte, 0, len(p.secret)+ids.BlobIDSize)
	buf = append(buf, p.secret...)
	buf = append(buf, p.blobID[:]...)

	return buf
}

func decodeSealedPayload(b []byte) (sealedPayload, bool) {
	if len(b) < ids.BlobIDSize {
		return sealedPayload{}, false
	}

	split := len(b) - ids.BlobIDSize

	var blobID ids.BlobID
	copy(blobID[:], b[split:])

	secret := make([]byte, split)
	copy(secret, b[:split])

	return sealedPayload{secret: secret, blobID: blobID}, true
}

// WriteRequest describes a new live entry to append to a vault's log.
type WriteRequest struct {
	RecordID ids.RecordID
	Hint     ids.RecordHint
	Secret   []byte
}

// RevokeRequest describes a tombstone to append for an existing record id.
type RevokeRequest struct {
	RecordID ids.RecordID
}

// ReadResult is the in-memory projection of one record's current (decrypted)
// state. Nothing in this package builds one: [DbView.GetGuard] passes the
// plaintext to a callback instead.
type ReadResult struct {
	RecordID     ids.RecordID
	ChainCounter uint64
	Hint         ids.RecordHint
	Secret       []byte
	BlobID       ids.BlobID
}

// RecordListing is the (id, hint) pair returned by [DbView.ListRecords]: a
// pure, key-free metadata query over the live (non-revoked) records.
type RecordListing struct {
	RecordID ids.RecordID
	Hint     ids.RecordHint
}

// RecordBlobListing is the (id, blob id) pair returned by
// [DbView.ListRecordsWithBlobID], in chain-counter (insertion) order.
type RecordBlobListing struct {
	RecordID ids.RecordID
	BlobID   ids.BlobID
}
