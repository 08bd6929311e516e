package procedure_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/stronghold-go/stronghold/boxprovider"
	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/keystore"
	"github.com/stronghold-go/stronghold/procedure"
	"github.com/stronghold-go/stronghold/vault"
)

func newState(p boxprovider.BoxProvider) *procedure.State {
	return &procedure.State{KeyStore: keystore.New(), DbView: vault.New(p)}
}

func readSecret(t *testing.T, state *procedure.State, loc ids.Location) []byte {
	t.Helper()

	vid, rid := loc.Resolve()

	var got []byte

	err := state.KeyStore.With(vid, func(key []byte) error {
		return state.DbView.GetGuard(key, vid, rid, func(plaintext []byte) error {
			got = append(got, plaintext...)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("read secret: %v", err)
	}

	return got
}

func loc(vaultPath, recordPath string) ids.Location {
	return ids.Generic([]byte(vaultPath), []byte(recordPath))
}

func TestAesKeyWrapRoundTrip(t *testing.T) {
	// RFC 3394 section 4.6 test vector.
	kek := make([]byte, 32)
	for i := range kek {
		kek[i] = byte(i)
	}

	plaintext := make([]byte, 32)
	for i := 0; i < 16; i++ {
		plaintext[i] = byte(17 * i)
	}

	for i := 16; i < 32; i++ {
		plaintext[i] = byte(i - 16)
	}

	wantCiphertext := []byte{
		40, 201, 244, 4, 196, 184, 16, 244, 203, 204, 179, 92, 251, 135, 248, 38,
		63, 87, 134, 226, 216, 14, 211, 38, 203, 199, 240, 231, 26, 153, 244, 59,
		251, 152, 139, 155, 122, 2, 221, 33,
	}

	p := boxprovider.New()
	state := newState(p)

	kekLoc, plaintextLoc, outLoc := loc("v", "kek"), loc("v", "pt"), loc("v", "out")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.WriteVault{Data: kek, Location: kekLoc}); err != nil {
		t.Fatalf("write kek: %v", err)
	}

	if _, err := procedure.ExecuteProcedure(state, p, procedure.WriteVault{Data: plaintext, Location: plaintextLoc}); err != nil {
		t.Fatalf("write plaintext: %v", err)
	}

	ciphertext, err := procedure.ExecuteProcedure(state, p, procedure.AesKeyWrapEncrypt{
		EncryptionKey: kekLoc,
		WrapKey:       plaintextLoc,
	})
	if err != nil {
		t.Fatalf("AesKeyWrapEncrypt: %v", err)
	}

	if !bytes.Equal(ciphertext, wantCiphertext) {
		t.Fatalf("ciphertext = %x, want %x", ciphertext, wantCiphertext)
	}

	_, err = procedure.ExecuteProcedure(state, p, procedure.AesKeyWrapDecrypt{
		DecryptionKey: kekLoc,
		WrappedKey:    ciphertext,
		Output:        outLoc,
	})
	if err != nil {
		t.Fatalf("AesKeyWrapDecrypt: %v", err)
	}

	if got := readSecret(t, state, outLoc); !bytes.Equal(got, plaintext) {
		t.Errorf("unwrapped = %x, want %x", got, plaintext)
	}
}

func TestEd25519GenerateSignVerify(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	keyLoc := loc("v", "key")
	msg := []byte("a message to sign")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.GenerateKey{Type: procedure.Ed25519, Output: keyLoc}); err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	pk, err := procedure.ExecuteProcedure(state, p, procedure.PublicKey{Type: procedure.Ed25519, PrivateKey: keyLoc})
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}

	sig, err := procedure.ExecuteProcedure(state, p, procedure.Ed25519Sign{PrivateKey: keyLoc, Msg: msg})
	if err != nil {
		t.Fatalf("Ed25519Sign: %v", err)
	}

	if !ed25519.Verify(pk, msg, sig) {
		t.Error("signature failed to verify")
	}
}

func TestSecp256k1EcdsaSignRecoverAndEvmAddress(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	keyLoc := loc("v", "key")
	msg := []byte("a secp256k1 message")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.GenerateKey{Type: procedure.Secp256k1Ecdsa, Output: keyLoc}); err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	pkBytes, err := procedure.ExecuteProcedure(state, p, procedure.PublicKey{Type: procedure.Secp256k1Ecdsa, PrivateKey: keyLoc})
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}

	pub, err := secp256k1.ParsePubKey(pkBytes)
	if err != nil {
		t.Fatalf("ParsePubKey: %v", err)
	}

	addr, err := procedure.ExecuteProcedure(state, p, procedure.GetEvmAddress{PrivateKey: keyLoc})
	if err != nil {
		t.Fatalf("GetEvmAddress: %v", err)
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(pkBytes[1:])
	wantAddr := h.Sum(nil)[12:]

	if !bytes.Equal(addr, wantAddr) {
		t.Errorf("evm address = %x, want %x", addr, wantAddr)
	}

	sig, err := procedure.ExecuteProcedure(state, p, procedure.Secp256k1EcdsaSign{PrivateKey: keyLoc, Msg: msg})
	if err != nil {
		t.Fatalf("Secp256k1EcdsaSign: %v", err)
	}

	if len(sig) != 65 {
		t.Fatalf("signature length = %d, want 65", len(sig))
	}

	recid := sig[64]
	compact := make([]byte, 0, 65)
	compact = append(compact, 27+recid)
	compact = append(compact, sig[:64]...)

	digest := sha256.Sum256(msg)

	recovered, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		t.Fatalf("RecoverCompact: %v", err)
	}

	if !recovered.IsEqual(pub) {
		t.Error("recovered public key does not match generated public key")
	}
}

func TestSlip10DeriveIntermediateKeysMatchDirectPath(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	seedLoc := loc("v", "seed")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.Slip10Generate{Output: seedLoc}); err != nil {
		t.Fatalf("Slip10Generate: %v", err)
	}

	chain0 := []uint32{0x80000000, 0x80000001}
	chain1 := []uint32{0x80000002, 0x80000003}

	direct := append(append([]uint32{}, chain0...), chain1...)

	cc0, err := procedure.ExecuteProcedure(state, p, procedure.Slip10Derive{
		Curve:  procedure.CurveEd25519,
		Chain:  direct,
		Input:  procedure.Slip10DeriveInput{Seed: &seedLoc},
		Output: loc("v", "direct"),
	})
	if err != nil {
		t.Fatalf("Slip10Derive (direct): %v", err)
	}

	intermediateLoc := loc("v", "intermediate")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.Slip10Derive{
		Curve:  procedure.CurveEd25519,
		Chain:  chain0,
		Input:  procedure.Slip10DeriveInput{Seed: &seedLoc},
		Output: intermediateLoc,
	}); err != nil {
		t.Fatalf("Slip10Derive (intermediate): %v", err)
	}

	cc1, err := procedure.ExecuteProcedure(state, p, procedure.Slip10Derive{
		Curve:  procedure.CurveEd25519,
		Chain:  chain1,
		Input:  procedure.Slip10DeriveInput{Key: &intermediateLoc},
		Output: loc("v", "child"),
	})
	if err != nil {
		t.Fatalf("Slip10Derive (child): %v", err)
	}

	if !bytes.Equal(cc0, cc1) {
		t.Errorf("chain codes differ: %x vs %x", cc0, cc1)
	}
}

func TestDiffieHellmanConcatKdfSharedSecretsMatch(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	sk1Loc, sk2Loc := loc("v", "sk1"), loc("v", "sk2")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.GenerateKey{Type: procedure.X25519, Output: sk1Loc}); err != nil {
		t.Fatalf("GenerateKey sk1: %v", err)
	}

	if _, err := procedure.ExecuteProcedure(state, p, procedure.GenerateKey{Type: procedure.X25519, Output: sk2Loc}); err != nil {
		t.Fatalf("GenerateKey sk2: %v", err)
	}

	pub1, err := procedure.ExecuteProcedure(state, p, procedure.PublicKey{Type: procedure.X25519, PrivateKey: sk1Loc})
	if err != nil {
		t.Fatalf("PublicKey sk1: %v", err)
	}

	pub2, err := procedure.ExecuteProcedure(state, p, procedure.PublicKey{Type: procedure.X25519, PrivateKey: sk2Loc})
	if err != nil {
		t.Fatalf("PublicKey sk2: %v", err)
	}

	shared12Loc, shared21Loc := loc("v", "shared12"), loc("v", "shared21")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.X25519DiffieHellman{
		PrivateKey: sk1Loc, PublicKey: pub2, SharedKey: shared12Loc,
	}); err != nil {
		t.Fatalf("X25519DiffieHellman 1->2: %v", err)
	}

	if _, err := procedure.ExecuteProcedure(state, p, procedure.X25519DiffieHellman{
		PrivateKey: sk2Loc, PublicKey: pub1, SharedKey: shared21Loc,
	}); err != nil {
		t.Fatalf("X25519DiffieHellman 2->1: %v", err)
	}

	key12Loc, key21Loc := loc("v", "key12"), loc("v", "key21")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.ConcatKdf{
		Hash: procedure.Sha256, AlgorithmID: "ECDH", SharedSecret: shared12Loc,
		KeyLen: 32, Output: key12Loc,
	}); err != nil {
		t.Fatalf("ConcatKdf 1->2: %v", err)
	}

	if _, err := procedure.ExecuteProcedure(state, p, procedure.ConcatKdf{
		Hash: procedure.Sha256, AlgorithmID: "ECDH", SharedSecret: shared21Loc,
		KeyLen: 32, Output: key21Loc,
	}); err != nil {
		t.Fatalf("ConcatKdf 2->1: %v", err)
	}

	if got1, got2 := readSecret(t, state, key12Loc), readSecret(t, state, key21Loc); !bytes.Equal(got1, got2) {
		t.Errorf("derived shared keys differ: %x vs %x", got1, got2)
	}
}

// Test vector from https://www.rfc-editor.org/rfc/rfc7518.html#appendix-C.
func TestConcatKdfRFC7518Vector(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	sharedSecret := []byte{
		158, 86, 217, 29, 129, 113, 53, 211, 114, 131, 66, 131, 191, 132, 38, 156,
		251, 49, 110, 163, 218, 128, 106, 72, 246, 218, 167, 121, 140, 254, 144, 196,
	}

	secretLoc, outLoc := loc("v", "z"), loc("v", "out")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.WriteVault{Data: sharedSecret, Location: secretLoc}); err != nil {
		t.Fatalf("write shared secret: %v", err)
	}

	const keyLen = 16

	pubInfo := []byte{0, 0, 0, byte(keyLen * 8)}

	if _, err := procedure.ExecuteProcedure(state, p, procedure.ConcatKdf{
		Hash:         procedure.Sha256,
		AlgorithmID:  "A128GCM",
		SharedSecret: secretLoc,
		KeyLen:       keyLen,
		Apu:          []byte("Alice"),
		Apv:          []byte("Bob"),
		PubInfo:      pubInfo,
		Output:       outLoc,
	}); err != nil {
		t.Fatalf("ConcatKdf: %v", err)
	}

	want := []byte{86, 170, 141, 234, 248, 35, 109, 32, 92, 34, 40, 205, 113, 167, 16, 26}

	if got := readSecret(t, state, outLoc); !bytes.Equal(got, want) {
		t.Errorf("derived key = %v, want %v", got, want)
	}
}

func TestAeadEncryptDecryptRoundTrip(t *testing.T) {
	for _, cipher := range []procedure.AeadCipher{procedure.Aes256Gcm, procedure.XChaCha20Poly1305} {
		p := boxprovider.New()
		state := newState(p)

		keyLoc := loc("v", "key")

		keySize := 32

		key := make([]byte, keySize)
		for i := range key {
			key[i] = byte(i)
		}

		if _, err := procedure.ExecuteProcedure(state, p, procedure.WriteVault{Data: key, Location: keyLoc}); err != nil {
			t.Fatalf("write key: %v", err)
		}

		nonceLen := 12
		if cipher == procedure.XChaCha20Poly1305 {
			nonceLen = 24
		}

		nonce := make([]byte, nonceLen)
		plaintext := []byte("a test plaintext that is longer than one block")
		ad := []byte("associated data")

		out, err := procedure.ExecuteProcedure(state, p, procedure.AeadEncrypt{
			Cipher: cipher, Key: keyLoc, Plaintext: plaintext, AssociatedData: ad, Nonce: nonce,
		})
		if err != nil {
			t.Fatalf("AeadEncrypt(%v): %v", cipher, err)
		}

		tag, ciphertext := out[:16], out[16:]

		got, err := procedure.ExecuteProcedure(state, p, procedure.AeadDecrypt{
			Cipher: cipher, Key: keyLoc, Ciphertext: ciphertext, AssociatedData: ad, Tag: tag, Nonce: nonce,
		})
		if err != nil {
			t.Fatalf("AeadDecrypt(%v): %v", cipher, err)
		}

		if !bytes.Equal(got, plaintext) {
			t.Errorf("cipher %v: decrypted = %q, want %q", cipher, got, plaintext)
		}
	}
}

func TestBip39GenerateRecoverSameSeed(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	passphrase := "a passphrase"
	seedLoc := loc("v", "seed")

	mnemonic, err := procedure.ExecuteProcedure(state, p, procedure.BIP39Generate{
		Passphrase: &passphrase, Output: seedLoc,
	})
	if err != nil {
		t.Fatalf("BIP39Generate: %v", err)
	}

	recoveredLoc := loc("v", "recovered")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.BIP39Recover{
		Mnemonic: string(mnemonic), Passphrase: &passphrase, Output: recoveredLoc,
	}); err != nil {
		t.Fatalf("BIP39Recover: %v", err)
	}

	seed, recovered := readSecret(t, state, seedLoc), readSecret(t, state, recoveredLoc)
	if !bytes.Equal(seed, recovered) {
		t.Error("recovered seed does not match generated seed")
	}
}

func TestCopyRecordThenDeleteOriginalStillSigns(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	original := loc("v", "original")
	msg := []byte("move me")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.GenerateKey{Type: procedure.Ed25519, Output: original}); err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	wantSig, err := procedure.ExecuteProcedure(state, p, procedure.Ed25519Sign{PrivateKey: original, Msg: msg})
	if err != nil {
		t.Fatalf("Ed25519Sign (original): %v", err)
	}

	moved := loc("v2", "moved")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.CopyRecord{Source: original, Target: moved}); err != nil {
		t.Fatalf("CopyRecord: %v", err)
	}

	vid, rid := original.Resolve()

	if err := state.DbView.Revoke(vid, vault.RevokeRequest{RecordID: rid}); err != nil {
		t.Fatalf("Revoke original: %v", err)
	}

	gotSig, err := procedure.ExecuteProcedure(state, p, procedure.Ed25519Sign{PrivateKey: moved, Msg: msg})
	if err != nil {
		t.Fatalf("Ed25519Sign (moved): %v", err)
	}

	if !bytes.Equal(wantSig, gotSig) {
		t.Error("signature from moved location does not match original")
	}
}

func TestExecuteProcedureChained_RevokesOutputsOnFailure(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	writtenLoc := loc("v", "written")
	missingLoc := loc("v", "missing")

	_, err := procedure.ExecuteProcedureChained(state, p, []procedure.Procedure{
		procedure.WriteVault{Data: []byte("will be revoked"), Location: writtenLoc},
		procedure.Ed25519Sign{PrivateKey: missingLoc, Msg: []byte("x")},
	})
	if err == nil {
		t.Fatal("expected chain to fail on missing input location")
	}

	vid, rid := writtenLoc.Resolve()
	if state.DbView.ContainsRecord(vid, rid) {
		t.Error("expected first step's output to be revoked after chain failure")
	}
}

func TestGarbageCollectAndRevokeData(t *testing.T) {
	p := boxprovider.New()
	state := newState(p)

	recordLoc := loc("v", "r")

	if _, err := procedure.ExecuteProcedure(state, p, procedure.WriteVault{Data: []byte("x"), Location: recordLoc}); err != nil {
		t.Fatalf("WriteVault: %v", err)
	}

	if _, err := procedure.ExecuteProcedure(state, p, procedure.RevokeData{Location: recordLoc, ShouldGC: true}); err != nil {
		t.Fatalf("RevokeData: %v", err)
	}

	vid, rid := recordLoc.Resolve()
	if state.DbView.ContainsRecord(vid, rid) {
		t.Error("expected record to be gone after revoke+gc")
	}

	if _, err := procedure.ExecuteProcedure(state, p, procedure.GarbageCollect{VaultPath: []byte("v")}); err != nil {
		t.Fatalf("GarbageCollect: %v", err)
	}
}
