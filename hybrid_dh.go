package tlscore

// hybrid_dh.go - hybrid (EC)DHE + KEM key exchange for TLS 1.2.
//
// The classical and KEM shared secrets are not mixed here. They are returned
// as separate typed parts so that Combine fixes their order, and the
// ClientKeyExchange body is returned so that DeriveHybridMasterSecret can
// bind it into the seed.

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/cryptobyte"
)

// HybridKeyExchange pairs a classical DH function with a KEM.
type HybridKeyExchange struct {
	Classical DHFunc
	KEM       KEMFunc
}

// Hybrid key exchange groups.
var (
	HybridX25519MLKEM512  = HybridKeyExchange{Classical: DH25519, KEM: KEMMLKEM512}
	HybridX25519MLKEM768  = HybridKeyExchange{Classical: DH25519, KEM: KEMMLKEM768}
	HybridX25519MLKEM1024 = HybridKeyExchange{Classical: DH25519, KEM: KEMMLKEM1024}
	HybridP256MLKEM768    = HybridKeyExchange{Classical: DHP256, KEM: KEMMLKEM768}
	HybridP384MLKEM1024   = HybridKeyExchange{Classical: DHP384, KEM: KEMMLKEM1024}
)

// Name is the classical name and the KEM name joined with "+".
func (h HybridKeyExchange) Name() string {
	return h.Classical.DHName() + "+" + h.KEM.KEMName()
}

// ServerKeyShare is the server's ephemeral key material. The public halves
// travel in ServerKeyExchange.
type ServerKeyShare struct {
	DH  DHKey
	KEM KEMKey
}

// Destroy wipes both private keys.
func (s *ServerKeyShare) Destroy() {
	s.DH.Destroy()
	s.KEM.Destroy()
}

// GenerateServerKeyShare creates the server's ephemeral keys.
func (h HybridKeyExchange) GenerateServerKeyShare(rng io.Reader) (*ServerKeyShare, error) {
	if rng == nil {
		rng = rand.Reader
	}
	dh, err := h.Classical.GenerateKeypair(rng)
	if err != nil {
		return nil, err
	}
	kemKey, err := h.KEM.GenerateKeypair(rng)
	if err != nil {
		dh.Destroy()
		return nil, err
	}
	return &ServerKeyShare{DH: dh, KEM: kemKey}, nil
}

// Encapsulate runs the client side against the server's public DH value and
// KEM public key. It returns both premaster parts and the ClientKeyExchange
// body to send.
func (h HybridKeyExchange) Encapsulate(rng io.Reader, serverDH, serverKEM []byte) (*ClassicalSecret, *KEMSecret, []byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	eph, err := h.Classical.GenerateKeypair(rng)
	if err != nil {
		return nil, nil, nil, err
	}
	defer eph.Destroy()

	dhSS, err := h.Classical.DH(eph.Private, serverDH)
	if err != nil {
		return nil, nil, nil, err
	}
	defer secureZero(dhSS)

	ct, kemSS, err := h.KEM.Encapsulate(serverKEM, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	defer secureZero(kemSS)

	cke, err := MarshalClientKeyExchange(eph.Public, ct)
	if err != nil {
		return nil, nil, nil, err
	}
	classical, kem, err := h.parts(dhSS, kemSS)
	if err != nil {
		return nil, nil, nil, err
	}
	return classical, kem, cke, nil
}

// Decapsulate runs the server side on a received ClientKeyExchange body.
func (h HybridKeyExchange) Decapsulate(share *ServerKeyShare, cke []byte) (*ClassicalSecret, *KEMSecret, error) {
	if share == nil {
		return nil, nil, ErrKeyInitialization
	}
	point, ct, err := ParseClientKeyExchange(cke)
	if err != nil {
		return nil, nil, err
	}
	if len(point) != h.Classical.PublicKeyLen() {
		return nil, nil, ErrInvalidDHPublicKey
	}

	dhSS, err := h.Classical.DH(share.DH.Private, point)
	if err != nil {
		return nil, nil, err
	}
	defer secureZero(dhSS)

	kemSS, err := h.KEM.Decapsulate(share.KEM.Private, ct)
	if err != nil {
		return nil, nil, err
	}
	defer secureZero(kemSS)

	return h.parts(dhSS, kemSS)
}

func (h HybridKeyExchange) parts(dhSS, kemSS []byte) (*ClassicalSecret, *KEMSecret, error) {
	classical, err := NewClassicalSecret(dhSS)
	if err != nil {
		return nil, nil, err
	}
	kem, err := NewKEMSecret(kemSS)
	if err != nil {
		classical.Destroy()
		return nil, nil, err
	}
	return classical, kem, nil
}

// MarshalClientKeyExchange encodes a hybrid ClientKeyExchange body:
//
//	opaque ecdh_Yc<1..2^8-1>;
//	opaque kem_ciphertext<1..2^16-1>;
func MarshalClientKeyExchange(point, ciphertext []byte) ([]byte, error) {
	if len(point) == 0 || len(ciphertext) == 0 {
		return nil, ErrMalformedClientKeyExchange
	}
	var b cryptobyte.Builder
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(point)
	})
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(ciphertext)
	})
	return b.Bytes()
}

// ParseClientKeyExchange decodes a body built by MarshalClientKeyExchange.
// The returned slices alias data.
func ParseClientKeyExchange(data []byte) (point, ciphertext []byte, err error) {
	s := cryptobyte.String(data)
	var p, c cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&p) || !s.ReadUint16LengthPrefixed(&c) || !s.Empty() || p.Empty() || c.Empty() {
		return nil, nil, ErrMalformedClientKeyExchange
	}
	return p, c, nil
}
