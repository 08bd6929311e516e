//go:build strongholdtesthooks

package client

import "github.com/stronghold-go/stronghold/ids"

// ReadSecret decrypts and returns recordPath's plaintext directly, bypassing
// [Client.ExecuteProcedure]. It exists only to make test assertions
// convenient, so it is gated behind the strongholdtesthooks build tag and
// must never be reachable from production code paths.
func (h *VaultHandle) ReadSecret(recordPath []byte) ([]byte, error) {
	rid := ids.DeriveRecordID(h.vaultPath, recordPath)

	var secret []byte

	err := h.client.state.KeyStore.With(h.vid, func(key []byte) error {
		return h.client.state.DbView.GetGuard(key, h.vid, rid, func(plaintext []byte) error {
			secret = append(secret, plaintext...)
			return nil
		})
	})

	return secret, err
}
