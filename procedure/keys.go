package procedure

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/sha3"

	"github.com/stronghold-go/stronghold/ids"
)

// privateScalar extracts the 32-byte private key material from a secret
// that is either a raw key (as produced by [GenerateKey]) or a SLIP-10
// extended key (private key || chain code, as produced by [Slip10Derive]).
func privateScalar(secret []byte) ([]byte, error) {
	switch len(secret) {
	case 32:
		return secret, nil
	case 64:
		return secret[:32], nil
	default:
		return nil, fmt.Errorf("%w: want 32 or 64 byte key, got %d", ErrTypeMismatch, len(secret))
	}
}

// GenerateKey creates a fresh private key of the given type and writes it
// to Output.
type GenerateKey struct {
	Type   KeyType
	Output ids.Location
}

func (p GenerateKey) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p GenerateKey) execute(r *runtime) ([]byte, error) {
	key, err := generatePrivateKey(p.Type)
	if err != nil {
		return nil, fatalf("generate key", err)
	}

	if err := r.writeSecret(p.Output, key); err != nil {
		return nil, err
	}

	return nil, nil
}

func generatePrivateKey(ty KeyType) ([]byte, error) {
	switch ty {
	case Ed25519:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}

		return priv.Seed(), nil
	case X25519:
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}

		return key, nil
	case Secp256k1Ecdsa:
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}

		return priv.Serialize(), nil
	default:
		return nil, fmt.Errorf("procedure: unknown key type %d", ty)
	}
}

// PublicKey derives the public key for PrivateKey, of the declared Type.
type PublicKey struct {
	Type       KeyType
	PrivateKey ids.Location
}

func (PublicKey) outputs() []ids.Location { return nil }

func (p PublicKey) execute(r *runtime) ([]byte, error) {
	secret, err := r.readSecret(p.PrivateKey)
	if err != nil {
		return nil, err
	}

	return derivePublicKey(p.Type, secret)
}

func derivePublicKey(ty KeyType, secret []byte) ([]byte, error) {
	switch ty {
	case Ed25519:
		seed, err := privateScalar(secret)
		if err != nil {
			return nil, err
		}

		return ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey), nil
	case X25519:
		scalar, err := privateScalar(secret)
		if err != nil {
			return nil, err
		}

		pub, err := curve25519.X25519(scalar, curve25519.Basepoint)
		if err != nil {
			return nil, fatalf("x25519 public key", err)
		}

		return pub, nil
	case Secp256k1Ecdsa:
		scalar, err := privateScalar(secret)
		if err != nil {
			return nil, err
		}

		priv := secp256k1.PrivKeyFromBytes(scalar)

		return priv.PubKey().SerializeUncompressed(), nil
	default:
		return nil, fmt.Errorf("procedure: unknown key type %d", ty)
	}
}

// GetEvmAddress derives the 20-byte Ethereum-style address (the last 20
// bytes of Keccak-256 over the uncompressed public key, prefix dropped) for
// a Secp256k1Ecdsa PrivateKey.
type GetEvmAddress struct {
	PrivateKey ids.Location
}

func (GetEvmAddress) outputs() []ids.Location { return nil }

func (p GetEvmAddress) execute(r *runtime) ([]byte, error) {
	secret, err := r.readSecret(p.PrivateKey)
	if err != nil {
		return nil, err
	}

	scalar, err := privateScalar(secret)
	if err != nil {
		return nil, err
	}

	pub := secp256k1.PrivKeyFromBytes(scalar).PubKey().SerializeUncompressed()

	h := sha3.NewLegacyKeccak256()
	h.Write(pub[1:])
	digest := h.Sum(nil)

	return digest[len(digest)-20:], nil
}

// Ed25519Sign signs Msg under PrivateKey, returning a 64-byte signature.
type Ed25519Sign struct {
	PrivateKey ids.Location
	Msg        []byte
}

func (Ed25519Sign) outputs() []ids.Location { return nil }

func (p Ed25519Sign) execute(r *runtime) ([]byte, error) {
	secret, err := r.readSecret(p.PrivateKey)
	if err != nil {
		return nil, err
	}

	seed, err := privateScalar(secret)
	if err != nil {
		return nil, err
	}

	return ed25519.Sign(ed25519.NewKeyFromSeed(seed), p.Msg), nil
}

// Secp256k1EcdsaSign signs sha256(Msg) under PrivateKey, returning a
// 65-byte recoverable signature laid out r || s || v (v is the plain
// recovery id, 0-3).
type Secp256k1EcdsaSign struct {
	PrivateKey ids.Location
	Msg        []byte
}

func (Secp256k1EcdsaSign) outputs() []ids.Location { return nil }

func (p Secp256k1EcdsaSign) execute(r *runtime) ([]byte, error) {
	secret, err := r.readSecret(p.PrivateKey)
	if err != nil {
		return nil, err
	}

	scalar, err := privateScalar(secret)
	if err != nil {
		return nil, err
	}

	priv := secp256k1.PrivKeyFromBytes(scalar)
	digest := sha256.Sum256(p.Msg)

	compact := ecdsa.SignCompact(priv, digest[:], false)
	// compact is [27+recid] || R || S; rearrange to R || S || recid.
	recid := compact[0] - 27

	sig := make([]byte, 0, 65)
	sig = append(sig, compact[1:]...)
	sig = append(sig, recid)

	return sig, nil
}
