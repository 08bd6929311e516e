// Package vault implements the record log and vault view: an append-only,
// per-vault encrypted log with chain counters and content-addressed blob
// ids, and the [DbView] that maps vault ids to vaults, enforcing per-vault
// keys and chain continuity.
package vault

import (
	"fmt"
	"sync"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/ids"
)

// vaultLog is the append-only sequence of entries for one vault, plus its
// chain-counter head. It is never accessed directly by callers outside this
// package; all access goes through [DbView] so that key checks and
// associated-data binding stay centralized.
type vaultLog struct {
	mu      sync.RWMutex
	entries []Record
	head    uint64
}

// DbView maps VaultID to vault, enforcing per-vault keys, chain continuity
// and blob-id equality without decrypting.
type DbView struct {
	provider boxprovider.BoxProvider

	mu     sync.RWMutex
	vaults map[ids.VaultID]*vaultLog
}

// New creates an empty [DbView] backed by provider.
func New(provider boxprovider.BoxProvider) *DbView {
	return &DbView{
		provider: provider,
		vaults:   make(map[ids.VaultID]*vaultLog),
	}
}

// InitVault creates an empty vault if one does not already exist. It is
// idempotent.
func (d *DbView) InitVault(vid ids.VaultID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.vaults[vid]; !ok {
		d.vaults[vid] = &vaultLog{}
	}
}

// ContainsVault reports whether vid has been initialized.
func (d *DbView) ContainsVault(vid ids.VaultID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.vaults[vid]

	return ok
}

// ContainsRecord reports whether rid has a live (non-revoked) entry in vid.
func (d *DbView) ContainsRecord(vid ids.VaultID, rid ids.RecordID) bool {
	v, ok := d.vault(vid)
	if !ok {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	_, live := latest(v.entries, rid)

	return live
}

func (d *DbView) vault(vid ids.VaultID) (*vaultLog, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.vaults[vid]

	return v, ok
}

func (d *DbView) vaultOrInit(vid ids.VaultID) *vaultLog {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, ok := d.vaults[vid]
	if !ok {
		v = &vaultLog{}
		d.vaults[vid] = v
	}

	return v
}

// latest returns the most recent entry for rid and whether it is live (a
// write, not a tombstone). Entries are scanned in insertion (== chain
// counter) order, so the last match wins.
func latest(entries []Record, rid ids.RecordID) (Record, bool) {
	var (
		found Record
		ok    bool
	)

	for _, e := range entries {
		if e.RecordID == rid {
			found, ok = e, true
		}
	}

	return found, ok && !found.Revoked
}

func associatedData(vid ids.VaultID, rid ids.RecordID) []byte {
	ad := make([]byte, 0, len(vid)+len(rid))
	ad = append(ad, vid[:]...)
	ad = append(ad, rid[:]...)

	return ad
}

// Write seals req.Secret under key, computes its blob id over
// (secret || hint), and appends a new live entry for req.RecordID, creating
// the vault if necessary. Chain counters strictly increase with insertion
// order (invariant 2).
func (d *DbView) Write(key []byte, vid ids.VaultID, req WriteRequest) error {
	v := d.vaultOrInit(vid)

	v.mu.Lock()
	defer v.mu.Unlock()

	blobID := ids.ComputeBlobID(req.Secret, req.Hint)

	nonceAndCiphertext, err := d.provider.Seal(key, associatedData(vid, req.RecordID), encodeSealedPayload(sealedPayload{
		secret: req.Secret,
		blobID: blobID,
	}))
	if err != nil {
		return fmt.Errorf("vault: write: seal: %w", err)
	}

	v.head++
	v.entries = append(v.entries, Record{
		RecordID:     req.RecordID,
		ChainCounter: v.head,
		Hint:         req.Hint,
		Ciphertext:   nonceAndCiphertext,
	})

	return nil
}

// Revoke appends a tombstone for rid in vid.
func (d *DbView) Revoke(vid ids.VaultID, req RevokeRequest) error {
	v, ok := d.vault(vid)
	if !ok {
		return ErrVaultNotFound
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, live := latest(v.entries, req.RecordID); !live {
		return ErrRecordNotFound
	}

	v.head++
	v.entries = append(v.entries, Record{
		RecordID:     req.RecordID,
		ChainCounter: v.head,
		Revoked:      true,
	})

	return nil
}

// GC compacts vid's log to only the entries whose records are currently
// live, preserving both chain counters and original insertion order.
// GC is idempotent: GC(GC(v)) == GC(v), and [DbView.ListRecords] is
// invariant under it.
func (d *DbView) GC(vid ids.VaultID) error {
	v, ok := d.vault(vid)
	if !ok {
		return ErrVaultNotFound
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	live := make(map[ids.RecordID]bool)

	for _, e := range v.entries {
		live[e.RecordID] = !e.Revoked
	}

	kept := v.entries[:0:0]

	for _, e := range v.entries {
		if !e.Revoked && live[e.RecordID] {
			kept = append(kept, e)
		}
	}

	v.entries = kept

	return nil
}

// ListRecords returns every live record's id and hint, in chain-counter
// order. It requires no key: hints are caller-opaque tags, not secrets.
func (d *DbView) ListRecords(vid ids.VaultID) ([]RecordListing, error) {
	v, ok := d.vault(vid)
	if !ok {
		return nil, ErrVaultNotFound
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]RecordListing, 0, len(v.entries))

	for _, rid := range liveOrder(v.entries) {
		e, _ := latest(v.entries, rid)
		out = append(out, RecordListing{RecordID: rid, Hint: e.Hint})
	}

	return out, nil
}

// liveOrder returns the distinct record ids that are currently live, in the
// order their first entry was inserted.
func liveOrder(entries []Record) []ids.RecordID {
	type state struct {
		index int
		live  bool
	}

	seen := make(map[ids.RecordID]*state, len(entries))
	order := make([]ids.RecordID, 0, len(entries))

	for _, e := range entries {
		s, ok := seen[e.RecordID]
		if !ok {
			s = &state{index: len(order)}
			order = append(order, e.RecordID)
			seen[e.RecordID] = s
		}

		s.live = !e.Revoked
	}

	out := make([]ids.RecordID, 0, len(order))

	for _, rid := range order {
		if seen[rid].live {
			out = append(out, rid)
		}
	}

	return out
}

// ListRecordsWithBlobID returns every live record's id and blob id, in
// chain-counter order, decrypting just enough of each record to recover the
// blob id field.
func (d *DbView) ListRecordsWithBlobID(key []byte, vid ids.VaultID) ([]RecordBlobListing, error) {
	v, ok := d.vault(vid)
	if !ok {
		return nil, ErrVaultNotFound
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]RecordBlobListing, 0, len(v.entries))

	for _, rid := range liveOrder(v.entries) {
		e, _ := latest(v.entries, rid)

		payload, err := d.open(key, vid, e)
		if err != nil {
			return nil, err
		}

		out = append(out, RecordBlobListing{RecordID: rid, BlobID: payload.blobID})
	}

	return out, nil
}

// GetBlobID decrypts just enough of rid's latest live entry to recover its
// blob id; the secret payload itself is discarded immediately.
func (d *DbView) GetBlobID(key []byte, vid ids.VaultID, rid ids.RecordID) (ids.BlobID, error) {
	v, ok := d.vault(vid)
	if !ok {
		return ids.BlobID{}, ErrVaultNotFound
	}

	v.mu.RLock()
	e, live := latest(v.entries, rid)
	v.mu.RUnlock()

	if !live {
		return ids.BlobID{}, ErrRecordNotFound
	}

	payload, err := d.open(key, vid, e)
	if err != nil {
		return ids.BlobID{}, err
	}

	return payload.blobID, nil
}

func (d *DbView) open(key []byte, vid ids.VaultID, e Record) (sealedPayload, error) {
	plaintext, err := d.provider.Open(key, associatedData(vid, e.RecordID), e.Ciphertext)
	if err != nil {
		return sealedPayload{}, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	payload, ok := decodeSealedPayload(plaintext)
	if !ok {
		return sealedPayload{}, fmt.Errorf("%w: truncated payload", ErrDecryptFailed)
	}

	return payload, nil
}

// GetGuard decrypts the latest live version of rid into a scratch buffer,
// invokes f with an immutable view into it, and zeroizes the buffer before
// returning — on every exit path, including a panic inside f. It is the
// sole path by which a record's plaintext may cross a component boundary.
func (d *DbView) GetGuard(key []byte, vid ids.VaultID, rid ids.RecordID, f func(plaintext []byte) error) error {
	v, ok := d.vault(vid)
	if !ok {
		return ErrVaultNotFound
	}

	v.mu.RLock()
	e, live := latest(v.entries, rid)
	v.mu.RUnlock()

	if !live {
		return ErrRecordNotFound
	}

	payload, err := d.open(key, vid, e)
	if err != nil {
		return err
	}

	buf := make([]byte, len(payload.secret))
	copy(buf, payload.secret)

	defer zero(buf)
	defer zero(payload.secret)

	return f(buf)
}

func zero(p []byte) {
	for i := range p {
		p[i] = 0
	}
}

// ExportRecords returns the sealed (still-encrypted) entries for the given
// record ids, performing no decryption or re-encryption. Tombstones are
// skipped: only live records are exportable.
func (d *DbView) ExportRecords(vid ids.VaultID, recordIDs []ids.RecordID) ([]Record, error) {
	v, ok := d.vault(vid)
	if !ok {
		return nil, ErrVaultNotFound
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Record, 0, len(recordIDs))

	for _, rid := range recordIDs {
		e, live := latest(v.entries, rid)
		if !live {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, rid)
		}

		out = append(out, e)
	}

	return out, nil
}

// ImportRecords decrypts each of records (sealed under sourceVid's binding,
// e.g. by [DbView.ExportRecords]) using oldKey, re-seals it under newKey
// bound to targetVid, and appends it there (creating the vault if
// necessary). The original record id is preserved; a fresh chain counter is
// assigned in the target vault.
func (d *DbView) ImportRecords(oldKey, newKey []byte, sourceVid, targetVid ids.VaultID, records []Record) error {
	v := d.vaultOrInit(targetVid)

	v.mu.Lock()
	defer v.mu.Unlock()

	for _, e := range records {
		plaintext, err := d.provider.Open(oldKey, associatedData(sourceVid, e.RecordID), e.Ciphertext)
		if err != nil {
			return fmt.Errorf("%w: import %s: %v", ErrDecryptFailed, e.RecordID, err)
		}

		resealed, err := d.provider.Seal(newKey, associatedData(targetVid, e.RecordID), plaintext)
		if err != nil {
			return fmt.Errorf("vault: import: reseal %s: %w", e.RecordID, err)
		}

		v.head++
		v.entries = append(v.entries, Record{
			RecordID:     e.RecordID,
			ChainCounter: v.head,
			Hint:         e.Hint,
			Ciphertext:   resealed,
		})
	}

	return nil
}

// VaultSnapshot is the full-fidelity contents of one vault's log: every
// entry (including tombstones) and the chain-counter head, used to
// round-trip a [DbView] byte-for-byte through the snapshot codec, as
// opposed to [DbView.ExportRecords]/[DbView.ImportRecords] which operate on
// a caller-selected subset of live records for sync.
type VaultSnapshot struct {
	Entries []Record
	Head    uint64
}

// ExportAll returns a full-fidelity snapshot of every vault, keyed by
// vault id.
func (d *DbView) ExportAll() map[ids.VaultID]VaultSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[ids.VaultID]VaultSnapshot, len(d.vaults))

	for vid, v := range d.vaults {
		v.mu.RLock()
		entries := make([]Record, len(v.entries))
		copy(entries, v.entries)
		out[vid] = VaultSnapshot{Entries: entries, Head: v.head}
		v.mu.RUnlock()
	}

	return out
}

// ImportAll replaces the entire contents of the view with vaults,
// discarding whatever was there before. It is used to reconstruct a
// [DbView] from a decoded snapshot.
func (d *DbView) ImportAll(vaults map[ids.VaultID]VaultSnapshot) {
	rebuilt := make(map[ids.VaultID]*vaultLog, len(vaults))

	for vid, snap := range vaults {
		entries := make([]Record, len(snap.Entries))
		copy(entries, snap.Entries)
		rebuilt[vid] = &vaultLog{entries: entries, head: snap.Head}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.vaults = rebuilt
}

// VaultIDs returns the id of every initialized vault, in no particular
// order.
func (d *DbView) VaultIDs() []ids.VaultID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]ids.VaultID, 0, len(d.vaults))
	for vid := range d.vaults {
		out = append(out, vid)
	}

	return out
}

// Diagnostics is a read-only snapshot of per-vault record counts and head
// chain counters, for tooling that needs an overview without walking every
// record.
type Diagnostics struct {
	VaultID     ids.VaultID
	LiveRecords int
	HeadCounter uint64
}

// Diagnose returns [Diagnostics] for every initialized vault.
func (d *DbView) Diagnose() []Diagnostics {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Diagnostics, 0, len(d.vaults))

	for vid, v := range d.vaults {
		v.mu.RLock()
		out = append(out, Diagnostics{
			VaultID:     vid,
			LiveRecords: len(liveOrder(v.entries)),
			HeadCounter: v.head,
		})
		v.mu.RUnlock()
	}

	return out
}
