package tlscore

// ML-KEM (FIPS 203) wrappers over CIRCL's kem.Scheme. These produce the KEM
// premaster secret part of a hybrid key exchange.

import (
	"crypto/rand"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

type mlkemWrapper struct {
	scheme           kem.Scheme
	name             string
	publicKeySize    int
	privateKeySize   int
	ciphertextSize   int
	sharedSecretSize int
}

// GenerateKeypair derives a keypair from a seed read from rng.
// If rng is nil, crypto/rand.Reader is used.
func (m mlkemWrapper) GenerateKeypair(rng io.Reader) (KEMKey, error) {
	if rng == nil {
		rng = rand.Reader
	}
	seed := make([]byte, m.scheme.SeedSize())
	defer secureZero(seed)
	if _, err := io.ReadFull(rng, seed); err != nil {
		return KEMKey{}, err
	}

	pub, priv := m.scheme.DeriveKeyPair(seed)
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return KEMKey{}, err
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return KEMKey{}, err
	}
	return KEMKey{Public: pubBytes, Private: privBytes}, nil
}

// Encapsulate returns a ciphertext for pubkey and the shared secret it
// carries. The caller owns the shared secret and must wipe it.
func (m mlkemWrapper) Encapsulate(pubkey []byte, rng io.Reader) (ciphertext, sharedSecret []byte, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(pubkey) != m.publicKeySize {
		return nil, nil, ErrInvalidKEMPublicKey
	}
	pub, err := m.scheme.UnmarshalBinaryPublicKey(pubkey)
	if err != nil {
		return nil, nil, ErrInvalidKEMPublicKey
	}

	seed := make([]byte, m.scheme.EncapsulationSeedSize())
	defer secureZero(seed)
	if _, err := io.ReadFull(rng, seed); err != nil {
		return nil, nil, err
	}
	return m.scheme.EncapsulateDeterministically(pub, seed)
}

// Decapsulate recovers the shared secret from ciphertext.
func (m mlkemWrapper) Decapsulate(privkey, ciphertext []byte) (sharedSecret []byte, err error) {
	if len(privkey) != m.privateKeySize {
		return nil, ErrInvalidKEMPrivateKey
	}
	if len(ciphertext) != m.ciphertextSize {
		return nil, ErrInvalidKEMCiphertext
	}
	priv, err := m.scheme.UnmarshalBinaryPrivateKey(privkey)
	if err != nil {
		return nil, ErrInvalidKEMPrivateKey
	}
	ss, err := m.scheme.Decapsulate(priv, ciphertext)
	if err != nil {
		return nil, ErrKEMDecapsulationFailed
	}
	return ss, nil
}

func (m mlkemWrapper) PublicKeyLen() int    { return m.publicKeySize }
func (m mlkemWrapper) PrivateKeyLen() int   { return m.privateKeySize }
func (m mlkemWrapper) CiphertextLen() int   { return m.ciphertextSize }
func (m mlkemWrapper) SharedSecretLen() int { return m.sharedSecretSize }
func (m mlkemWrapper) KEMName() string      { return m.name }

// ML-KEM parameter sets.
var (
	// KEMMLKEM512 is NIST security category 1.
	KEMMLKEM512 KEMFunc = mlkemWrapper{
		scheme:           mlkem512.Scheme(),
		name:             "MLKEM512",
		publicKeySize:    MLKEM512PublicKeySize,
		privateKeySize:   MLKEM512PrivateKeySize,
		ciphertextSize:   MLKEM512CiphertextSize,
		sharedSecretSize: MLKEM512SharedSecretSize,
	}

	// KEMMLKEM768 is NIST security category 3.
	KEMMLKEM768 KEMFunc = mlkemWrapper{
		scheme:           mlkem768.Scheme(),
		name:             "MLKEM768",
		publicKeySize:    MLKEM768PublicKeySize,
		privateKeySize:   MLKEM768PrivateKeySize,
		ciphertextSize:   MLKEM768CiphertextSize,
		sharedSecretSize: MLKEM768SharedSecretSize,
	}

	// KEMMLKEM1024 is NIST security category 5.
	KEMMLKEM1024 KEMFunc = mlkemWrapper{
		scheme:           mlkem1024.Scheme(),
		name:             "MLKEM1024",
		publicKeySize:    MLKEM1024PublicKeySize,
		privateKeySize:   MLKEM1024PrivateKeySize,
		ciphertextSize:   MLKEM1024CiphertextSize,
		sharedSecretSize: MLKEM1024SharedSecretSize,
	}
)

// LookupKEM finds an ML-KEM parameter set by name, such as "MLKEM768".
func LookupKEM(name string) (KEMFunc, bool) {
	for _, k := range []KEMFunc{KEMMLKEM512, KEMMLKEM768, KEMMLKEM1024} {
		if normalizeName(k.KEMName()) == normalizeName(name) {
			return k, true
		}
	}
	return nil, false
}
