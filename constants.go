package tlscore

import (
	"errors"
)

// Fixed TLS 1.2 secret sizes.
const (
	// MasterSecretLen is the length of a TLS 1.2 master secret.
	MasterSecretLen = 48

	// RandomLen is the length of ClientHello.random and ServerHello.random.
	RandomLen = 32

	// RSAPremasterLen is the length of an RSA key transport premaster secret.
	RSAPremasterLen = 48

	// FinishedVerifyDataLen is the length of TLS 1.2 Finished verify_data.
	FinishedVerifyDataLen = 12

	// MaxPremasterSecretLen bounds a combined premaster secret. Both parts are
	// carried in handshake messages, so neither can exceed a record's worth of
	// data in practice.
	MaxPremasterSecretLen = 1 << 16
)

// PRF labels (RFC 5246 section 8.1 and 6.3, RFC 7627, draft-campagna-tls-bike-sike-hybrid).
const (
	masterSecretLabel         = "master secret"
	hybridMasterSecretLabel   = "hybrid master secret"
	extendedMasterSecretLabel = "extended master secret"
	keyExpansionLabel         = "key expansion"

	// ClientFinishedLabel and ServerFinishedLabel are the labels for
	// FinishedVerifyData.
	ClientFinishedLabel = "client finished"
	ServerFinishedLabel = "server finished"
)

// MLKEM (Module-Lattice-Based Key Encapsulation Mechanism) constants.
// These values are defined in NIST FIPS 203 and represent the sizes of
// keys, ciphertexts, and shared secrets for each security level.
//
// MLKEM-512: NIST Security Level 1 (~AES-128 equivalent)
// MLKEM-768: NIST Security Level 3 (~AES-192 equivalent) - RECOMMENDED
// MLKEM-1024: NIST Security Level 5 (~AES-256 equivalent)
const (
	MLKEM512PublicKeySize    = 800
	MLKEM512PrivateKeySize   = 1632
	MLKEM512CiphertextSize   = 768
	MLKEM512SharedSecretSize = 32

	MLKEM768PublicKeySize    = 1184
	MLKEM768PrivateKeySize   = 2400
	MLKEM768CiphertextSize   = 1088
	MLKEM768SharedSecretSize = 32

	MLKEM1024PublicKeySize    = 1568
	MLKEM1024PrivateKeySize   = 3168
	MLKEM1024CiphertextSize   = 1568
	MLKEM1024SharedSecretSize = 32
)

// Signature layer errors. Every failure of a cryptographic check during
// verification is reported as ErrSignatureVerificationFailed and nothing else.
var (
	// ErrSchemeNotSupported indicates that the signature scheme is not
	// available in this build or runtime. It never depends on input data.
	ErrSchemeNotSupported = errors.New("tlscore: signature scheme not supported")

	// ErrIncompatibleKeyForScheme indicates that the key type may not be used
	// with the signature scheme.
	ErrIncompatibleKeyForScheme = errors.New("tlscore: key type incompatible with signature scheme")

	// ErrSignatureVerificationFailed is returned for any signature that does
	// not verify.
	ErrSignatureVerificationFailed = errors.New("tlscore: signature verification failed")

	// ErrSchemeMismatch indicates that the digest was computed with a hash
	// other than the one the scheme requires.
	ErrSchemeMismatch = errors.New("tlscore: digest hash does not match signature scheme")

	// ErrKeyInitialization indicates malformed key parameters.
	ErrKeyInitialization = errors.New("tlscore: invalid key parameters")

	// ErrNoPrivateKey indicates a signing attempt with a public-only key handle.
	ErrNoPrivateKey = errors.New("tlscore: key handle has no private key")

	// ErrUnsupportedHash indicates a hash algorithm without an implementation.
	ErrUnsupportedHash = errors.New("tlscore: unsupported hash algorithm")

	// ErrMalformedExtension indicates a signature_algorithms body that does
	// not parse.
	ErrMalformedExtension = errors.New("tlscore: malformed signature_algorithms extension")

	// ErrNoCommonScheme is returned by SelectScheme when the peer offered
	// nothing usable with the key.
	ErrNoCommonScheme = errors.New("tlscore: no mutually supported signature scheme")
)

// Secret handling errors.
var (
	// ErrAllocationFailure indicates that a secret buffer could not be
	// allocated within MaxPremasterSecretLen.
	ErrAllocationFailure = errors.New("tlscore: secret buffer allocation failed")

	// ErrEmptyKEMSecret indicates a hybrid combination with an empty KEM part.
	ErrEmptyKEMSecret = errors.New("tlscore: empty KEM premaster secret in hybrid mode")

	// ErrSecretConsumed indicates reuse of a secret that has already been
	// consumed or destroyed.
	ErrSecretConsumed = errors.New("tlscore: secret already consumed")

	// ErrInvalidRandom indicates a client or server random of the wrong size.
	ErrInvalidRandom = errors.New("tlscore: invalid random length")

	// ErrInvalidMasterSecret indicates a restored master secret of the wrong
	// size.
	ErrInvalidMasterSecret = errors.New("tlscore: invalid master secret length")
)

// Key exchange errors.
var (
	// ErrInvalidKEMPublicKey indicates that a KEM public key has invalid format or length.
	ErrInvalidKEMPublicKey = errors.New("tlscore: invalid KEM public key")

	// ErrInvalidKEMPrivateKey indicates that a KEM private key has invalid format or length.
	ErrInvalidKEMPrivateKey = errors.New("tlscore: invalid KEM private key")

	// ErrInvalidKEMCiphertext indicates that a KEM ciphertext has invalid format or length.
	ErrInvalidKEMCiphertext = errors.New("tlscore: invalid KEM ciphertext")

	// ErrKEMDecapsulationFailed indicates that KEM decapsulation operation failed.
	ErrKEMDecapsulationFailed = errors.New("tlscore: KEM decapsulation failed")

	// ErrInvalidDHPublicKey indicates a malformed or low-order peer share.
	ErrInvalidDHPublicKey = errors.New("tlscore: invalid key share")

	// ErrMalformedClientKeyExchange indicates a ClientKeyExchange body that
	// does not parse.
	ErrMalformedClientKeyExchange = errors.New("tlscore: malformed client key exchange")
)

// Known-answer file errors.
var (
	// ErrVectorCount indicates a KAT file whose vector count differs from
	// what the caller expects.
	ErrVectorCount = errors.New("tlscore: unexpected number of test vectors")

	// ErrMalformedVector indicates a KAT record that does not parse.
	ErrMalformedVector = errors.New("tlscore: malformed test vector")
)
