package procedure

// KeyType selects the asymmetric key family for [GenerateKey] and
// [PublicKey].
type KeyType int

const (
	Ed25519 KeyType = iota
	X25519
	Secp256k1Ecdsa
)

// Slip10Curve selects the elliptic curve for [Slip10Derive].
type Slip10Curve int

const (
	CurveEd25519 Slip10Curve = iota
	CurveSecp256k1
)

// AeadCipher selects the AEAD primitive for [AeadEncrypt] / [AeadDecrypt].
type AeadCipher int

const (
	Aes256Gcm AeadCipher = iota
	XChaCha20Poly1305
)

// AesKeyWrapCipher selects the wrapping cipher's key size for
// [AesKeyWrapEncrypt] / [AesKeyWrapDecrypt]. Only AES-256 key wrap (RFC 3394)
// is implemented; the enum is kept so callers name their intent explicitly.
type AesKeyWrapCipher int

const (
	Aes256 AesKeyWrapCipher = iota
)

// MnemonicLanguage selects the BIP-39 wordlist for [BIP39Generate] /
// [BIP39Recover]. Only English is supported: the underlying
// github.com/tyler-smith/go-bip39 wordlist the runner is built on ships just
// the English list by default.
type MnemonicLanguage int

const (
	English MnemonicLanguage = iota
)

// Sha2Variant selects the digest width for [Sha2Hash].
type Sha2Variant int

const (
	Sha256 Sha2Variant = iota
	Sha512
)
