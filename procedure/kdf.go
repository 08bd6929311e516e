package procedure

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/stronghold-go/stronghold/ids"
)

func hashFor(v Sha2Variant) func() hash.Hash {
	if v == Sha512 {
		return sha512.New
	}

	return sha256.New
}

func digestSizeFor(v Sha2Variant) int {
	if v == Sha512 {
		return sha512.Size
	}

	return sha256.Size
}

// Hkdf derives Okm's output via RFC 5869 HKDF-Extract-and-Expand over the
// secret at Ikm's location, using Salt and Label as info, and writes a
// digest-sized key to Okm.
type Hkdf struct {
	HashType Sha2Variant
	Salt     []byte
	Label    []byte
	Ikm      ids.Location
	Okm      ids.Location
}

func (p Hkdf) outputs() []ids.Location { return []ids.Location{p.Okm} }

func (p Hkdf) execute(r *runtime) ([]byte, error) {
	ikm, err := r.readSecret(p.Ikm)
	if err != nil {
		return nil, err
	}

	out := make([]byte, digestSizeFor(p.HashType))

	kdf := hkdf.New(hashFor(p.HashType), ikm, p.Salt, p.Label)
	if _, err := io.ReadFull(kdf, out); err != nil {
		return nil, fatalf("hkdf", err)
	}

	if err := r.writeSecret(p.Okm, out); err != nil {
		return nil, err
	}

	return nil, nil
}

// ConcatKdf implements the NIST SP 800-56A Concatenation KDF as profiled by
// RFC 7518 Appendix C (the ECDH-ES "ConcatKDF"): it derives KeyLen bytes
// from the secret at SharedSecret's location and the supplied fixed info
// fields, and writes the result to Output.
type ConcatKdf struct {
	Hash         Sha2Variant
	AlgorithmID  string
	SharedSecret ids.Location
	KeyLen       int
	Apu          []byte
	Apv          []byte
	PubInfo      []byte
	PrivInfo     []byte
	Output       ids.Location
}

func (p ConcatKdf) outputs() []ids.Location { return []ids.Location{p.Output} }

func (p ConcatKdf) execute(r *runtime) ([]byte, error) {
	z, err := r.readSecret(p.SharedSecret)
	if err != nil {
		return nil, err
	}

	otherInfo := concatOtherInfo(p.AlgorithmID, p.Apu, p.Apv, p.PubInfo, p.PrivInfo)
	derived := concatKDF(hashFor(p.Hash), z, otherInfo, p.KeyLen)

	if err := r.writeSecret(p.Output, derived); err != nil {
		return nil, err
	}

	return nil, nil
}

func datalen(b []byte) []byte {
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(b)))

	out := make([]byte, 0, 4+len(b))
	out = append(out, lenPrefix[:]...)
	out = append(out, b...)

	return out
}

func concatOtherInfo(algorithmID string, apu, apv, pubInfo, privInfo []byte) []byte {
	var otherInfo []byte

	otherInfo = append(otherInfo, datalen([]byte(algorithmID))...)
	otherInfo = append(otherInfo, datalen(apu)...)
	otherInfo = append(otherInfo, datalen(apv)...)
	otherInfo = append(otherInfo, pubInfo...)
	otherInfo = append(otherInfo, privInfo...)

	return otherInfo
}

func concatKDF(newHash func() hash.Hash, z, otherInfo []byte, keyLen int) []byte {
	h := newHash()
	hashLen := h.Size()

	rounds := (keyLen + hashLen - 1) / hashLen
	out := make([]byte, 0, rounds*hashLen)

	for counter := uint32(1); counter <= uint32(rounds); counter++ {
		h.Reset()

		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], counter)

		h.Write(ctr[:])
		h.Write(z)
		h.Write(otherInfo)

		out = append(out, h.Sum(nil)...)
	}

	return out[:keyLen]
}
