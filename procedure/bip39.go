package procedure

import (
	"github.com/tyler-smith/go-bip39"

	"github.com/stronghold-go/stronghold/ids"
)

// bip39Entropy is the entropy width (128 bits -> 12-word mnemonics) used by
// [BIP39Generate].
const bip39Entropy = 128

// BIP39Generate creates a fresh mnemonic, derives its 64-byte seed (with
// Passphrase, if given) and writes the seed to Output. It returns the
// mnemonic words as bytes.
type BIP39Generate struct {
	Language   MnemonicLanguage
	Passphrase *string
	Output     ids.Location
}

func (p BIP39Generate) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p BIP39Generate) execute(r *runtime) ([]byte, error) {
	entropy, err := bip39.NewEntropy(bip39Entropy)
	if err != nil {
		return nil, fatalf("bip39 generate", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fatalf("bip39 generate", err)
	}

	passphrase := ""
	if p.Passphrase != nil {
		passphrase = *p.Passphrase
	}

	seed := bip39.NewSeed(mnemonic, passphrase)

	if err := r.writeSecret(p.Output, seed); err != nil {
		return nil, err
	}

	return []byte(mnemonic), nil
}

// BIP39Recover re-derives the seed for an existing Mnemonic (with
// Passphrase, if given) and writes it to Output.
type BIP39Recover struct {
	Mnemonic   string
	Passphrase *string
	Output     ids.Location
}

func (p BIP39Recover) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p BIP39Recover) execute(r *runtime) ([]byte, error) {
	if !bip39.IsMnemonicValid(p.Mnemonic) {
		return nil, fatalf("bip39 recover", bip39.ErrInvalidMnemonic)
	}

	passphrase := ""
	if p.Passphrase != nil {
		passphrase = *p.Passphrase
	}

	seed := bip39.NewSeed(p.Mnemonic, passphrase)

	if err := r.writeSecret(p.Output, seed); err != nil {
		return nil, err
	}

	return nil, nil
}
