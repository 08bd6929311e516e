package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/keystore"
	"github.com/stronghold-go/stronghold/kvstore"
	"github.com/stronghold-go/stronghold/vault"
)

// ClientEntry is one (ClientId, ClientState) pair plus the client path
// needed to reconstruct a [client.Client] on decode; together, the full set
// of entries is a snapshot's complete state.
type ClientEntry struct {
	ID    ids.ClientID
	Path  []byte
	State *client.State
}

// serializeEntries produces a deterministic, length-prefixed, canonical
// encoding: every map is iterated in ascending raw-byte key order so that
// [Encode] o [Decode] round-trips byte-for-byte.
func serializeEntries(entries []ClientEntry) ([]byte, error) {
	sorted := make([]ClientEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.Compare(sorted[j].ID) < 0 })

	var buf bytes.Buffer

	writeUint32(&buf, uint32(len(sorted)))

	for _, e := range sorted {
		buf.Write(e.ID.Bytes())
		writeBytes(&buf, e.Path)

		if err := writeKeyStore(&buf, e.State.KeyStore); err != nil {
			return nil, err
		}

		writeDbView(&buf, e.State.DbView)

		storeBytes, err := e.State.Store.Serialize()
		if err != nil {
			return nil, fmt.Errorf("serialize store for client %s: %w", e.ID, err)
		}

		writeBytes(&buf, storeBytes)
	}

	return buf.Bytes(), nil
}

func writeKeyStore(buf *bytes.Buffer, ks *keystore.KeyStore) error {
	keys := ks.ExportAll()

	vids := make([]ids.VaultID, 0, len(keys))
	for vid := range keys {
		vids = append(vids, vid)
	}

	sort.Slice(vids, func(i, j int) bool { return vids[i].Compare(vids[j]) < 0 })

	writeUint32(buf, uint32(len(vids)))

	for _, vid := range vids {
		buf.Write(vid.Bytes())
		writeBytes(buf, keys[vid])
	}

	return nil
}

func writeDbView(buf *bytes.Buffer, db *vault.DbView) {
	vaults := db.ExportAll()

	vids := make([]ids.VaultID, 0, len(vaults))
	for vid := range vaults {
		vids = append(vids, vid)
	}

	sort.Slice(vids, func(i, j int) bool { return vids[i].Compare(vids[j]) < 0 })

	writeUint32(buf, uint32(len(vids)))

	for _, vid := range vids {
		snap := vaults[vid]

		buf.Write(vid.Bytes())
		writeUint64(buf, snap.Head)
		writeUint32(buf, uint32(len(snap.Entries)))

		for _, e := range snap.Entries {
			buf.Write(e.RecordID.Bytes())
			writeUint64(buf, e.ChainCounter)
			buf.Write(e.Hint[:])
			writeBool(buf, e.Revoked)
			writeBytes(buf, e.Ciphertext)
		}
	}
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
		return
	}

	buf.WriteByte(0)
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint32(buf, uint32(len(b)))
	buf.Write(b)
}

// reader is a small cursor over a serialized payload; every read advances
// the cursor or returns an error, never both.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) fixed(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("snapshot: deserialize: unexpected end of payload")
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.fixed(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.fixed(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) boolean() (bool, error) {
	b, err := r.fixed(1)
	if err != nil {
		return false, err
	}

	return b[0] != 0, nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}

	b, err := r.fixed(int(n))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}

func (r *reader) clientID() (ids.ClientID, error) {
	b, err := r.fixed(ids.IDSize)
	if err != nil {
		return ids.ClientID{}, err
	}

	return ids.ClientIDFromBytes(b)
}

func (r *reader) vaultID() (ids.VaultID, error) {
	b, err := r.fixed(ids.IDSize)
	if err != nil {
		return ids.VaultID{}, err
	}

	return ids.VaultIDFromBytes(b)
}

func (r *reader) recordID() (ids.RecordID, error) {
	b, err := r.fixed(ids.IDSize)
	if err != nil {
		return ids.RecordID{}, err
	}

	return ids.RecordIDFromBytes(b)
}

func (r *reader) hint() (ids.RecordHint, error) {
	b, err := r.fixed(ids.HintSize)
	if err != nil {
		return ids.RecordHint{}, err
	}

	return ids.NewRecordHint(b), nil
}

func deserializeEntries(ctx context.Context, provider boxprovider.BoxProvider, payload []byte) ([]ClientEntry, error) {
	r := &reader{data: payload}

	n, err := r.uint32()
	if err != nil {
		return nil, err
	}

	entries := make([]ClientEntry, 0, n)

	for i := uint32(0); i < n; i++ {
		cid, err := r.clientID()
		if err != nil {
			return nil, err
		}

		path, err := r.bytes()
		if err != nil {
			return nil, err
		}

		ks, err := readKeyStore(r)
		if err != nil {
			return nil, err
		}

		db, err := readDbView(r, provider)
		if err != nil {
			return nil, err
		}

		storeBytes, err := r.bytes()
		if err != nil {
			return nil, err
		}

		store, err := kvstore.NewFromSerialized(ctx, storeBytes)
		if err != nil {
			return nil, fmt.Errorf("restore store for client %s: %w", cid, err)
		}

		entries = append(entries, ClientEntry{
			ID:   cid,
			Path: path,
			State: &client.State{
				KeyStore: ks,
				DbView:   db,
				Store:    store,
			},
		})
	}

	return entries, nil
}

func readKeyStore(r *reader) (*keystore.KeyStore, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}

	keys := make(map[ids.VaultID][]byte, n)

	for i := uint32(0); i < n; i++ {
		vid, err := r.vaultID()
		if err != nil {
			return nil, err
		}

		key, err := r.bytes()
		if err != nil {
			return nil, err
		}

		keys[vid] = key
	}

	ks := keystore.New()
	ks.Rebuild(keys)

	return ks, nil
}

func readDbView(r *reader, provider boxprovider.BoxProvider) (*vault.DbView, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}

	vaults := make(map[ids.VaultID]vault.VaultSnapshot, n)

	for i := uint32(0); i < n; i++ {
		vid, err := r.vaultID()
		if err != nil {
			return nil, err
		}

		head, err := r.uint64()
		if err != nil {
			return nil, err
		}

		entryCount, err := r.uint32()
		if err != nil {
			return nil, err
		}

		entries := make([]vault.Record, 0, entryCount)

		for j := uint32(0); j < entryCount; j++ {
			rid, err := r.recordID()
			if err != nil {
				return nil, err
			}

			chainCounter, err := r.uint64()
			if err != nil {
				return nil, err
			}

			hint, err := r.hint()
			if err != nil {
				return nil, err
			}

			revoked, err := r.boolean()
			if err != nil {
				return nil, err
			}

			ciphertext, err := r.bytes()
			if err != nil {
				return nil, err
			}

			entries = append(entries, vault.Record{
				RecordID:     rid,
				ChainCounter: chainCounter,
				Hint:         hint,
				Ciphertext:   ciphertext,
				Revoked:      revoked,
			})
		}

		vaults[vid] = vault.VaultSnapshot{Entries: entries, Head: head}
	}

	db := vault.New(provider)
	db.ImportAll(vaults)

	return db, nil
}
