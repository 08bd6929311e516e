package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stronghold-go/stronghold/vaultcrypto"
)

// argon2Params overrides the KDF cost parameters used the first time a
// snapshot's salt sidecar is minted; set from the loaded [FileConfig] in
// [MustInitialize], falling back to [vaultcrypto.NewArgon2idKDF]'s defaults
// when unset.
var argon2Params *vaultcrypto.Argon2Params

// defaultArgon2Params defers to [vaultcrypto.DefaultArgon2Params], so a
// config file only overriding one of memory/time/parallelism still gets
// sensible values for the other two.
func defaultArgon2Params() vaultcrypto.Argon2Params {
	return vaultcrypto.DefaultArgon2Params()
}

// snapshotKey derives the 32-byte key stronghold.Commit/LoadSnapshot expect
// from a user passphrase, using the Argon2id salt and cost parameters
// recorded alongside snapshotPath the first time it is used. The salt lives
// in a PHC-formatted sidecar file (snapshotPath+".phc") so every later
// strongholdctl invocation re-derives the identical key from the same
// passphrase instead of minting a new, incompatible one.
func snapshotKey(passphrase []byte, snapshotPath string) ([]byte, error) {
	phcPath := snapshotPath + ".phc"

	raw, err := os.ReadFile(phcPath)

	switch {
	case err == nil:
		phc, err := vaultcrypto.DecodeAragon2idPHC(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("decode salt file %s: %w", phcPath, err)
		}

		kdf := vaultcrypto.NewArgon2idKDF(
			vaultcrypto.WithSalt(phc.Salt),
			vaultcrypto.WithParams(phc.Argon2Params),
			vaultcrypto.WithVersion(phc.Version),
			vaultcrypto.WithKeyLen(32),
		)

		return kdf.Derive(passphrase), nil

	case os.IsNotExist(err):
		salt, err := vaultcrypto.RandBytes(16)
		if err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}

		opts := []vaultcrypto.Argon2idKDFOpt{vaultcrypto.WithSalt(salt), vaultcrypto.WithKeyLen(32)}
		if argon2Params != nil {
			opts = append(opts, vaultcrypto.WithParams(*argon2Params))
		}

		kdf := vaultcrypto.NewArgon2idKDF(opts...)
		key := kdf.Derive(passphrase)

		if err := os.MkdirAll(filepath.Dir(phcPath), 0o700); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}

		phc := kdf.PHC().WithSalt(salt)

		if err := os.WriteFile(phcPath, []byte(phc.String()+"\n"), 0o600); err != nil {
			return nil, fmt.Errorf("write salt file %s: %w", phcPath, err)
		}

		return key, nil

	default:
		return nil, fmt.Errorf("stat salt file %s: %w", phcPath, err)
	}
}
