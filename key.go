package tlscore

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"math/big"
)

// KeyType is the declared type of a key, as determined by certificate
// decoding. It is fixed when the KeyHandle is created.
type KeyType uint8

const (
	KeyTypeUnknown KeyType = iota
	KeyTypeRSA
	KeyTypeRSAPSS
	KeyTypeEC
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeRSAPSS:
		return "RSA_PSS"
	case KeyTypeEC:
		return "EC"
	}
	return "UNKNOWN"
}

// minRSABits rejects toy moduli. A 1024-bit key is the smallest that still
// fits an rsa_pss_rsae_sha512 encoding.
const minRSABits = 1024

// A KeyHandle pairs native key material with its declared KeyType. The
// handle is owned by the certificate or key object that created it and is
// never mutated by signing or verification.
type KeyHandle struct {
	typ  KeyType
	pub  crypto.PublicKey
	priv crypto.PrivateKey
}

// Type returns the declared key type.
func (k *KeyHandle) Type() KeyType { return k.typ }

// Public returns the public key (*rsa.PublicKey or *ecdsa.PublicKey).
func (k *KeyHandle) Public() crypto.PublicKey { return k.pub }

// HasPrivate reports whether the handle can sign.
func (k *KeyHandle) HasPrivate() bool { return k.priv != nil }

func (k *KeyHandle) rsaPublic() (*rsa.PublicKey, bool) {
	pub, ok := k.pub.(*rsa.PublicKey)
	return pub, ok
}

func (k *KeyHandle) rsaPrivate() (*rsa.PrivateKey, bool) {
	priv, ok := k.priv.(*rsa.PrivateKey)
	return priv, ok
}

func (k *KeyHandle) ecdsaPublic() (*ecdsa.PublicKey, bool) {
	pub, ok := k.pub.(*ecdsa.PublicKey)
	return pub, ok
}

func (k *KeyHandle) ecdsaPrivate() (*ecdsa.PrivateKey, bool) {
	priv, ok := k.priv.(*ecdsa.PrivateKey)
	return priv, ok
}

func checkRSAType(typ KeyType) error {
	if typ != KeyTypeRSA && typ != KeyTypeRSAPSS {
		return fmt.Errorf("%w: key type %s is not an RSA type", ErrKeyInitialization, typ)
	}
	return nil
}

func checkRSAPublic(pub *rsa.PublicKey) error {
	if pub == nil || pub.N == nil {
		return fmt.Errorf("%w: missing modulus", ErrKeyInitialization)
	}
	if pub.N.Sign() <= 0 || pub.N.Bit(0) == 0 {
		return fmt.Errorf("%w: modulus must be positive and odd", ErrKeyInitialization)
	}
	if pub.N.BitLen() < minRSABits {
		return fmt.Errorf("%w: modulus of %d bits is too small", ErrKeyInitialization, pub.N.BitLen())
	}
	if pub.E < 2 {
		return fmt.Errorf("%w: public exponent %d is too small", ErrKeyInitialization, pub.E)
	}
	return nil
}

// NewRSAKeyHandle wraps an RSA private key. typ must be KeyTypeRSA or
// KeyTypeRSAPSS; the two share the same key material and differ only in
// which schemes they may be used with.
func NewRSAKeyHandle(priv *rsa.PrivateKey, typ KeyType) (*KeyHandle, error) {
	if err := checkRSAType(typ); err != nil {
		return nil, err
	}
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrKeyInitialization)
	}
	if err := checkRSAPublic(&priv.PublicKey); err != nil {
		return nil, err
	}
	if priv.D == nil || priv.D.Sign() <= 0 || priv.D.Cmp(priv.N) >= 0 {
		return nil, fmt.Errorf("%w: private exponent out of range", ErrKeyInitialization)
	}
	return &KeyHandle{typ: typ, pub: &priv.PublicKey, priv: priv}, nil
}

// NewRSAPublicKeyHandle wraps an RSA public key for verification only.
func NewRSAPublicKeyHandle(pub *rsa.PublicKey, typ KeyType) (*KeyHandle, error) {
	if err := checkRSAType(typ); err != nil {
		return nil, err
	}
	if err := checkRSAPublic(pub); err != nil {
		return nil, err
	}
	return &KeyHandle{typ: typ, pub: pub}, nil
}

// NewRSAKeyHandleFromParams builds a key handle from raw big-endian
// parameters, the way test vectors override an existing key. d may be nil
// for a verification-only handle. Without the prime factors the private
// operation runs without CRT.
func NewRSAKeyHandleFromParams(n, e, d []byte, typ KeyType) (*KeyHandle, error) {
	if err := checkRSAType(typ); err != nil {
		return nil, err
	}
	eInt := new(big.Int).SetBytes(e)
	if !eInt.IsInt64() || eInt.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("%w: public exponent too large", ErrKeyInitialization)
	}
	pub := &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(eInt.Int64())}
	if err := checkRSAPublic(pub); err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return &KeyHandle{typ: typ, pub: pub}, nil
	}
	priv := &rsa.PrivateKey{PublicKey: *pub, D: new(big.Int).SetBytes(d)}
	if priv.D.Sign() <= 0 || priv.D.Cmp(priv.N) >= 0 {
		return nil, fmt.Errorf("%w: private exponent out of range", ErrKeyInitialization)
	}
	return &KeyHandle{typ: typ, pub: &priv.PublicKey, priv: priv}, nil
}

// NewECKeyHandle wraps an ECDSA private key.
func NewECKeyHandle(priv *ecdsa.PrivateKey) (*KeyHandle, error) {
	if priv == nil || priv.D == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrKeyInitialization)
	}
	if err := checkECPublic(&priv.PublicKey); err != nil {
		return nil, err
	}
	return &KeyHandle{typ: KeyTypeEC, pub: &priv.PublicKey, priv: priv}, nil
}

// NewECPublicKeyHandle wraps an ECDSA public key for verification only.
func NewECPublicKeyHandle(pub *ecdsa.PublicKey) (*KeyHandle, error) {
	if err := checkECPublic(pub); err != nil {
		return nil, err
	}
	return &KeyHandle{typ: KeyTypeEC, pub: pub}, nil
}

func checkECPublic(pub *ecdsa.PublicKey) error {
	if pub == nil || pub.Curve == nil || pub.X == nil || pub.Y == nil {
		return fmt.Errorf("%w: incomplete EC public key", ErrKeyInitialization)
	}
	if _, err := pub.ECDH(); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyInitialization, err)
	}
	return nil
}

var oidRSASSAPSS = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10}

// KeyHandleFromCertificate builds a verification handle from a parsed
// certificate. The RSA_PSS type is assigned when the certificate carries an
// id-RSASSA-PSS subject key, which crypto/x509 does not decode itself; in that
// case pub must hold the RSA key recovered by the caller.
func KeyHandleFromCertificate(cert *x509.Certificate, pub *rsa.PublicKey) (*KeyHandle, error) {
	if cert == nil {
		return nil, fmt.Errorf("%w: nil certificate", ErrKeyInitialization)
	}
	switch cert.PublicKeyAlgorithm {
	case x509.RSA:
		k, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: certificate key is not RSA", ErrKeyInitialization)
		}
		return NewRSAPublicKeyHandle(k, KeyTypeRSA)
	case x509.ECDSA:
		k, ok := cert.PublicKey.(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: certificate key is not ECDSA", ErrKeyInitialization)
		}
		return NewECPublicKeyHandle(k)
	}
	if isRSAPSSSubjectKey(cert.RawSubjectPublicKeyInfo) {
		return NewRSAPublicKeyHandle(pub, KeyTypeRSAPSS)
	}
	return &KeyHandle{typ: KeyTypeUnknown, pub: cert.PublicKey}, nil
}

func isRSAPSSSubjectKey(spki []byte) bool {
	var info struct {
		Algorithm struct {
			Algorithm  asn1.ObjectIdentifier
			Parameters asn1.RawValue `asn1:"optional"`
		}
		PublicKey asn1.BitString
	}
	if rest, err := asn1.Unmarshal(spki, &info); err != nil || len(rest) != 0 {
		return false
	}
	return info.Algorithm.Algorithm.Equal(oidRSASSAPSS)
}

func curveName(c elliptic.Curve) string {
	if c == nil || c.Params() == nil {
		return ""
	}
	return c.Params().Name
}
