package tlscore

import (
	"crypto/ecdh"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/curve25519"
)

type dh25519 struct{}

func (dh25519) GenerateKeypair(rng io.Reader) (DHKey, error) {
	if rng == nil {
		rng = rand.Reader
	}
	privkey := make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(rng, privkey); err != nil {
		return DHKey{}, err
	}
	pubkey, err := curve25519.X25519(privkey, curve25519.Basepoint)
	if err != nil {
		secureZero(privkey)
		return DHKey{}, err
	}
	return DHKey{Private: privkey, Public: pubkey}, nil
}

func (dh25519) DH(privkey, pubkey []byte) ([]byte, error) {
	if len(privkey) != curve25519.ScalarSize {
		return nil, ErrKeyInitialization
	}
	if len(pubkey) != curve25519.PointSize {
		return nil, ErrInvalidDHPublicKey
	}
	// Low-order points yield an all-zero output, which X25519 reports as an error.
	ss, err := curve25519.X25519(privkey, pubkey)
	if err != nil {
		return nil, ErrInvalidDHPublicKey
	}
	return ss, nil
}

func (dh25519) DHLen() int        { return curve25519.PointSize }
func (dh25519) PublicKeyLen() int { return curve25519.PointSize }
func (dh25519) DHName() string    { return "x25519" }

type dhNIST struct {
	curve ecdh.Curve
	name  string
	pub   int
	ss    int
}

func (d dhNIST) GenerateKeypair(rng io.Reader) (DHKey, error) {
	if rng == nil {
		rng = rand.Reader
	}
	// Sample the scalar from rng directly so a seeded reader reproduces the key.
	scalar := make([]byte, d.ss)
	defer secureZero(scalar)
	for {
		if _, err := io.ReadFull(rng, scalar); err != nil {
			return DHKey{}, err
		}
		priv, err := d.curve.NewPrivateKey(scalar)
		if err != nil {
			continue
		}
		return DHKey{Private: priv.Bytes(), Public: priv.PublicKey().Bytes()}, nil
	}
}

func (d dhNIST) DH(privkey, pubkey []byte) ([]byte, error) {
	priv, err := d.curve.NewPrivateKey(privkey)
	if err != nil {
		return nil, ErrKeyInitialization
	}
	pub, err := d.curve.NewPublicKey(pubkey)
	if err != nil {
		return nil, ErrInvalidDHPublicKey
	}
	ss, err := priv.ECDH(pub)
	if err != nil {
		return nil, ErrInvalidDHPublicKey
	}
	return ss, nil
}

func (d dhNIST) DHLen() int        { return d.ss }
func (d dhNIST) PublicKeyLen() int { return d.pub }
func (d dhNIST) DHName() string    { return d.name }

// Classical key agreement functions.
var (
	// DH25519 is X25519 (RFC 7748).
	DH25519 DHFunc = dh25519{}

	// DHP256 is ECDHE over secp256r1 with uncompressed points.
	DHP256 DHFunc = dhNIST{curve: ecdh.P256(), name: "secp256r1", pub: 65, ss: 32}

	// DHP384 is ECDHE over secp384r1. Its 48-byte shared secret has the
	// same length as an RSA premaster secret.
	DHP384 DHFunc = dhNIST{curve: ecdh.P384(), name: "secp384r1", pub: 97, ss: 48}
)

// GenerateRSAPremaster builds the 48-byte premaster secret a client
// encrypts to the server's RSA key: client_version followed by 46 random
// bytes (RFC 5246 section 7.4.7.1).
func GenerateRSAPremaster(rng io.Reader, version uint16) (*ClassicalSecret, error) {
	if rng == nil {
		rng = rand.Reader
	}
	buf := make([]byte, RSAPremasterLen)
	defer secureZero(buf)
	buf[0] = byte(version >> 8)
	buf[1] = byte(version)
	if _, err := io.ReadFull(rng, buf[2:]); err != nil {
		return nil, err
	}
	return NewClassicalSecret(buf)
}
