package tlscore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/subtle"
	"errors"
	"io"
	"math/big"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// A Backend performs the raw RSA operations underneath the padding layer.
// Implementations must run SignRaw in time independent of the private key.
type Backend interface {
	// SignRaw computes m^d mod n over the big-endian block em, which has the
	// modulus length. It returns a block of the modulus length.
	SignRaw(random io.Reader, priv *rsa.PrivateKey, em []byte) ([]byte, error)

	// VerifyRaw computes s^e mod n and returns it as a block of the modulus
	// length. It fails when sig is not a valid representative.
	VerifyRaw(pub *rsa.PublicKey, sig []byte) ([]byte, error)

	// SupportsPSS reports whether PSS padding may be used with this backend.
	// The answer is fixed for the lifetime of the backend.
	SupportsPSS() bool
}

var errRawRepresentative = errors.New("tlscore: representative out of range")

type bigBackend struct {
	pss bool
}

// NewBackend returns the math/big backend. With pss false it behaves like a
// crypto library built without PSS support.
func NewBackend(pss bool) Backend {
	return bigBackend{pss: pss}
}

func (b bigBackend) SupportsPSS() bool { return b.pss }

func (bigBackend) VerifyRaw(pub *rsa.PublicKey, sig []byte) ([]byte, error) {
	k := (pub.N.BitLen() + 7) / 8
	if len(sig) != k {
		return nil, errRawRepresentative
	}
	s := new(big.Int).SetBytes(sig)
	if s.Cmp(pub.N) >= 0 {
		return nil, errRawRepresentative
	}
	m := new(big.Int).Exp(s, big.NewInt(int64(pub.E)), pub.N)
	return m.FillBytes(make([]byte, k)), nil
}

func (b bigBackend) SignRaw(random io.Reader, priv *rsa.PrivateKey, em []byte) ([]byte, error) {
	if random == nil {
		random = rand.Reader
	}
	n := priv.N
	k := (n.BitLen() + 7) / 8
	if len(em) != k {
		return nil, errRawRepresentative
	}
	m := new(big.Int).SetBytes(em)
	if m.Cmp(n) >= 0 {
		return nil, errRawRepresentative
	}
	e := big.NewInt(int64(priv.E))

	// Blind: c = m * r^e, s = c^d * r^-1.
	var r, rInv *big.Int
	for {
		var err error
		r, err = rand.Int(random, n)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		rInv = new(big.Int).ModInverse(r, n)
		if rInv != nil {
			break
		}
	}
	c := new(big.Int).Exp(r, e, n)
	c.Mul(c, m)
	c.Mod(c, n)
	s := new(big.Int).Exp(c, priv.D, n)
	s.Mul(s, rInv)
	s.Mod(s, n)

	// A faulty private operation must not release a signature.
	check := new(big.Int).Exp(s, e, n)
	out := s.FillBytes(make([]byte, k))
	if subtle.ConstantTimeCompare(check.FillBytes(make([]byte, k)), em) != 1 {
		secureZero(out)
		return nil, errors.New("tlscore: RSA private operation failed consistency check")
	}
	return out, nil
}

type capabilityEnv struct {
	DisableRSAPSS bool `env:"TLSCORE_DISABLE_RSA_PSS" env-default:"false"`
}

var defaultBackend = sync.OnceValue(func() Backend {
	var env capabilityEnv
	if err := cleanenv.ReadEnv(&env); err != nil {
		return bigBackend{pss: true}
	}
	return bigBackend{pss: !env.DisableRSAPSS}
})

// DefaultBackend returns the process-wide backend. Its PSS capability is read
// from TLSCORE_DISABLE_RSA_PSS on first use and never changes afterwards.
func DefaultBackend() Backend {
	return defaultBackend()
}

// IsRSAPSSSigningSupported reports whether the process-wide backend can
// produce and check PSS signatures. It has no side effects beyond the first
// call's one-time capability probe.
func IsRSAPSSSigningSupported() bool {
	return defaultBackend().SupportsPSS()
}
