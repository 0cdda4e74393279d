package tlscore

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"

	"github.com/go-i2p/tlscore/logging"
)

// keyOps implements signing and verification for one family of key types.
// digest is the finalized hash value, already checked against scheme.Hash.
type keyOps interface {
	sign(s *Signer, key *KeyHandle, scheme SignatureScheme, digest []byte) ([]byte, error)
	verify(s *Signer, key *KeyHandle, scheme SignatureScheme, digest, sig []byte) error
	// fits reports whether the key is large enough, and of the right shape,
	// for the scheme. It never looks at signature data.
	fits(key *KeyHandle, scheme SignatureScheme) bool
}

var opsByKeyType = map[KeyType]keyOps{
	KeyTypeRSA:    rsaOps{},
	KeyTypeRSAPSS: rsaOps{},
	KeyTypeEC:     ecdsaOps{},
}

// A Signer signs and verifies handshake digests with any supported key type.
// It holds no mutable state and may be shared between goroutines.
type Signer struct {
	backend Backend
	random  io.Reader
	table   CompatibilityTable
	enabled []SignatureScheme
	log     logging.Logger
}

// NewSigner returns a Signer for cfg. The compatibility table is copied.
func NewSigner(cfg Config) *Signer {
	s := &Signer{
		backend: cfg.Backend,
		random:  cfg.Random,
		enabled: append([]SignatureScheme(nil), cfg.Schemes...),
		log:     cfg.Logger,
	}
	if s.backend == nil {
		s.backend = DefaultBackend()
	}
	if s.random == nil {
		s.random = rand.Reader
	}
	if cfg.Compatibility == nil {
		s.table = DefaultCompatibilityTable()
	} else {
		s.table = cfg.Compatibility.Clone()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	s.log = s.log.With("component", "signer")
	return s
}

// SupportsPSS reports whether this signer's backend can use PSS schemes.
func (s *Signer) SupportsPSS() bool {
	return s.backend.SupportsPSS()
}

// Compatibility returns a copy of the table the signer enforces.
func (s *Signer) Compatibility() CompatibilityTable {
	return s.table.Clone()
}

// admit runs the checks that precede any cryptographic operation. None of
// them depend on the signature.
func (s *Signer) admit(op string, key *KeyHandle, scheme SignatureScheme, digest HashAccumulator) (keyOps, error) {
	if key == nil {
		return nil, ErrKeyInitialization
	}
	if scheme.Algorithm == SignatureAnonymous || !scheme.Hash.Available() {
		s.reject(op, key, scheme, "scheme unavailable")
		return nil, ErrSchemeNotSupported
	}
	if scheme.Algorithm.IsPSS() && !s.backend.SupportsPSS() {
		s.reject(op, key, scheme, "pss unavailable")
		return nil, ErrSchemeNotSupported
	}
	ops, ok := opsByKeyType[key.Type()]
	if !ok || !s.table.Allows(scheme.Algorithm, key.Type()) || !ops.fits(key, scheme) {
		s.reject(op, key, scheme, "incompatible key")
		return nil, ErrIncompatibleKeyForScheme
	}
	if digest == nil || digest.Algorithm() != scheme.Hash {
		s.reject(op, key, scheme, "digest hash mismatch")
		return nil, ErrSchemeMismatch
	}
	return ops, nil
}

func (s *Signer) reject(op string, key *KeyHandle, scheme SignatureScheme, reason string) {
	s.log.Debug(context.Background(), "signature operation rejected",
		"op", op, "scheme", scheme.String(), "key_type", key.Type().String(), "reason", reason)
}

// Sign signs the current value of digest with key under scheme. For PSS the
// salt is read from the configured random source and is as long as the
// digest. The result is as long as the RSA modulus, or an ASN.1 ECDSA
// signature.
func (s *Signer) Sign(key *KeyHandle, scheme SignatureScheme, digest HashAccumulator) ([]byte, error) {
	ops, err := s.admit("sign", key, scheme, digest)
	if err != nil {
		return nil, err
	}
	if !key.HasPrivate() {
		return nil, ErrNoPrivateKey
	}
	return ops.sign(s, key, scheme, digest.Sum(nil))
}

// Verify checks sig over the current value of digest. Every failure of the
// signature itself is reported as ErrSignatureVerificationFailed.
func (s *Signer) Verify(key *KeyHandle, scheme SignatureScheme, digest HashAccumulator, sig []byte) error {
	ops, err := s.admit("verify", key, scheme, digest)
	if err != nil {
		return err
	}
	if err := ops.verify(s, key, scheme, digest.Sum(nil), sig); err != nil {
		s.log.Debug(context.Background(), "signature verification failed",
			"scheme", scheme.String(), "key_type", key.Type().String())
		return ErrSignatureVerificationFailed
	}
	return nil
}

// Usable reports whether Sign and Verify would accept key with scheme,
// ignoring the digest.
func (s *Signer) Usable(key *KeyHandle, scheme SignatureScheme) bool {
	if key == nil || scheme.Algorithm == SignatureAnonymous || !scheme.Hash.Available() {
		return false
	}
	if scheme.Algorithm.IsPSS() && !s.backend.SupportsPSS() {
		return false
	}
	ops, ok := opsByKeyType[key.Type()]
	return ok && s.table.Allows(scheme.Algorithm, key.Type()) && ops.fits(key, scheme)
}

// SelectScheme returns the first scheme in peer, in the peer's preference
// order, that is enabled in the configuration and usable with key.
func (s *Signer) SelectScheme(key *KeyHandle, peer []SignatureScheme) (SignatureScheme, error) {
	for _, p := range peer {
		if s.isEnabled(p) && s.Usable(key, p) {
			return p, nil
		}
	}
	return SignatureScheme{}, ErrNoCommonScheme
}

func (s *Signer) isEnabled(scheme SignatureScheme) bool {
	if len(s.enabled) == 0 {
		_, ok := LookupSignatureScheme(scheme.ID)
		return ok
	}
	for _, e := range s.enabled {
		if e == scheme {
			return true
		}
	}
	return false
}

type rsaOps struct{}

func (rsaOps) fits(key *KeyHandle, scheme SignatureScheme) bool {
	pub, ok := key.rsaPublic()
	if !ok {
		return false
	}
	hLen := scheme.Hash.Size()
	switch scheme.Algorithm {
	case SignatureRSAPKCS1:
		prefix, ok := pkcs1Prefixes[scheme.Hash]
		return ok && (pub.N.BitLen()+7)/8 >= len(prefix)+hLen+11
	case SignatureRSAPSSRSAE, SignatureRSAPSSPSS:
		// The signer always uses a salt as long as the digest.
		return (pub.N.BitLen()-1+7)/8 >= 2*hLen+2
	}
	return false
}

func (rsaOps) sign(s *Signer, key *KeyHandle, scheme SignatureScheme, digest []byte) ([]byte, error) {
	priv, _ := key.rsaPrivate()
	k := (priv.N.BitLen() + 7) / 8

	var em []byte
	var err error
	switch scheme.Algorithm {
	case SignatureRSAPKCS1:
		em, err = emsaPKCS1v15Encode(scheme.Hash, digest, k)
	default:
		salt := make([]byte, scheme.Hash.Size())
		if _, err := io.ReadFull(s.random, salt); err != nil {
			return nil, err
		}
		em, err = emsaPSSEncode(scheme.Hash, digest, priv.N.BitLen()-1, salt)
		if err == nil && len(em) < k {
			// emBits is one less than the modulus, so the block may be a
			// byte short of the representative length.
			em = append(make([]byte, k-len(em)), em...)
		}
	}
	if err != nil {
		return nil, err
	}
	return s.backend.SignRaw(s.random, priv, em)
}

func (rsaOps) verify(s *Signer, key *KeyHandle, scheme SignatureScheme, digest, sig []byte) error {
	pub, _ := key.rsaPublic()
	k := (pub.N.BitLen() + 7) / 8

	block, err := s.backend.VerifyRaw(pub, sig)
	if err != nil {
		return err
	}

	switch scheme.Algorithm {
	case SignatureRSAPKCS1:
		want, err := emsaPKCS1v15Encode(scheme.Hash, digest, k)
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare(block, want) != 1 {
			return ErrSignatureVerificationFailed
		}
		return nil
	default:
		emBits := pub.N.BitLen() - 1
		emLen := (emBits + 7) / 8
		ok := 1
		for _, b := range block[:k-emLen] {
			ok &= subtle.ConstantTimeByteEq(b, 0)
		}
		valid := emsaPSSVerify(scheme.Hash, digest, block[k-emLen:], emBits, scheme.SaltLength)
		if ok != 1 || !valid {
			return ErrSignatureVerificationFailed
		}
		return nil
	}
}

type ecdsaOps struct{}

func (ecdsaOps) fits(key *KeyHandle, scheme SignatureScheme) bool {
	pub, ok := key.ecdsaPublic()
	if !ok || scheme.Algorithm != SignatureECDSA {
		return false
	}
	return scheme.Curve == "" || scheme.Curve == curveName(pub.Curve)
}

func (ecdsaOps) sign(s *Signer, key *KeyHandle, _ SignatureScheme, digest []byte) ([]byte, error) {
	priv, _ := key.ecdsaPrivate()
	return ecdsa.SignASN1(s.random, priv, digest)
}

var errECDSAVerify = errors.New("tlscore: ecdsa verification failed")

func (ecdsaOps) verify(_ *Signer, key *KeyHandle, _ SignatureScheme, digest, sig []byte) error {
	pub, _ := key.ecdsaPublic()
	if !ecdsa.VerifyASN1(pub, digest, sig) {
		return errECDSAVerify
	}
	return nil
}
