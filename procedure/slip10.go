package procedure

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/stronghold-go/stronghold/ids"
)

// defaultSeedSize is used by [Slip10Generate] when SizeBytes is nil,
// matching the 64-byte seed BIP-39 itself produces.
const defaultSeedSize = 64

// extendedKeySize is the width of a SLIP-10 extended key: a 32-byte private
// key followed by a 32-byte chain code.
const extendedKeySize = 64

var (
	ed25519SeedKey     = []byte("ed25519 seed")
	secp256k1SeedKey   = []byte("Bitcoin seed")
	secp256k1CurveN, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
)

// Slip10Generate writes SizeBytes (default 64) of random seed material to
// Output. The seed is not yet an extended key: [Slip10Derive] turns it into
// one via the curve-specific master-key HMAC.
type Slip10Generate struct {
	SizeBytes *int
	Output    ids.Location
}

func (p Slip10Generate) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p Slip10Generate) execute(r *runtime) ([]byte, error) {
	size := defaultSeedSize
	if p.SizeBytes != nil {
		size = *p.SizeBytes
	}

	seed := make([]byte, size)
	if _, err := rand.Read(seed); err != nil {
		return nil, fatalf("generate slip10 seed", err)
	}

	if err := r.writeSecret(p.Output, seed); err != nil {
		return nil, err
	}

	return nil, nil
}

// Slip10DeriveInput selects whether [Slip10Derive] starts from a raw seed
// (computing the curve's master key first) or continues from an
// already-derived extended key.
type Slip10DeriveInput struct {
	Seed *ids.Location
	Key  *ids.Location
}

// Slip10Derive derives a child extended key by walking Chain from Input,
// writing the resulting extended key (private key || chain code) to
// Output, and returning just the chain code.
type Slip10Derive struct {
	Curve  Slip10Curve
	Chain  []uint32
	Input  Slip10DeriveInput
	Output ids.Location
}

func (p Slip10Derive) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p Slip10Derive) execute(r *runtime) ([]byte, error) {
	var extended []byte

	switch {
	case p.Input.Seed != nil:
		seed, err := r.readSecret(*p.Input.Seed)
		if err != nil {
			return nil, err
		}

		extended = masterKey(p.Curve, seed)
	case p.Input.Key != nil:
		key, err := r.readSecret(*p.Input.Key)
		if err != nil {
			return nil, err
		}

		if len(key) != extendedKeySize {
			return nil, fmt.Errorf("%w: want %d byte extended key, got %d", ErrTypeMismatch, extendedKeySize, len(key))
		}

		extended = key
	default:
		return nil, fmt.Errorf("procedure: slip10 derive: neither seed nor key input set")
	}

	for _, index := range p.Chain {
		var err error

		extended, err = deriveChild(p.Curve, extended, index)
		if err != nil {
			return nil, fatalf("slip10 derive", err)
		}
	}

	if err := r.writeSecret(p.Output, extended); err != nil {
		return nil, err
	}

	chainCode := append([]byte(nil), extended[32:]...)

	return chainCode, nil
}

func seedKeyFor(curve Slip10Curve) []byte {
	if curve == CurveSecp256k1 {
		return secp256k1SeedKey
	}

	return ed25519SeedKey
}

// masterKey computes I = HMAC-SHA512(curve seed key, seed), returning
// IL || IR as the curve's master extended key (SLIP-10 §"Master key
// generation").
func masterKey(curve Slip10Curve, seed []byte) []byte {
	mac := hmac.New(sha512.New, seedKeyFor(curve))
	mac.Write(seed)

	return mac.Sum(nil)
}

const hardenedBit = 0x80000000

// deriveChild computes one SLIP-10 CKD step. Ed25519 only supports hardened
// derivation; secp256k1 supports both, following ordinary BIP-32 CKD with
// modular addition of the parent key.
func deriveChild(curve Slip10Curve, extended []byte, index uint32) ([]byte, error) {
	key, chainCode := extended[:32], extended[32:]
	hardened := index&hardenedBit != 0

	var data []byte

	switch {
	case curve == CurveEd25519 && !hardened:
		return nil, fmt.Errorf("ed25519 slip10 derivation requires a hardened index, got %d", index)
	case hardened:
		data = make([]byte, 0, 1+32+4)
		data = append(data, 0x00)
		data = append(data, key...)
	default:
		pub := secp256k1.PrivKeyFromBytes(key).PubKey().SerializeCompressed()
		data = append([]byte(nil), pub...)
	}

	data = append(data, byte(index>>24), byte(index>>16), byte(index>>8), byte(index))

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	i := mac.Sum(nil)

	il, ir := i[:32], i[32:]

	if curve == CurveEd25519 {
		out := make([]byte, 0, extendedKeySize)
		out = append(out, il...)
		out = append(out, ir...)

		return out, nil
	}

	childKey := addModCurveOrder(key, il)

	out := make([]byte, 0, extendedKeySize)
	out = append(out, childKey...)
	out = append(out, ir...)

	return out, nil
}

// addModCurveOrder computes (parent + il) mod n, the secp256k1 BIP-32 child
// key derivation step, returning a left-zero-padded 32-byte result.
func addModCurveOrder(parent, il []byte) []byte {
	sum := new(big.Int).Add(new(big.Int).SetBytes(parent), new(big.Int).SetBytes(il))
	sum.Mod(sum, secp256k1CurveN)

	out := make([]byte, 32)
	sum.FillBytes(out)

	return out
}
