package tlscore

import (
	"crypto"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// HashAlgorithm identifies a digest used by a signature scheme or by the PRF.
// The values match the TLS 1.2 HashAlgorithm registry.
type HashAlgorithm uint8

const (
	HashNone   HashAlgorithm = 0
	HashSHA1   HashAlgorithm = 2
	HashSHA224 HashAlgorithm = 3
	HashSHA256 HashAlgorithm = 4
	HashSHA384 HashAlgorithm = 5
	HashSHA512 HashAlgorithm = 6
)

// Hash returns a fresh hash state, or nil for an unknown algorithm.
func (a HashAlgorithm) Hash() hash.Hash {
	f := a.constructor()
	if f == nil {
		return nil
	}
	return f()
}

// HashName is the name of the hash function.
func (a HashAlgorithm) HashName() string {
	switch a {
	case HashSHA1:
		return "SHA1"
	case HashSHA224:
		return "SHA224"
	case HashSHA256:
		return "SHA256"
	case HashSHA384:
		return "SHA384"
	case HashSHA512:
		return "SHA512"
	}
	return "none"
}

func (a HashAlgorithm) String() string { return a.HashName() }

// Size is the digest length in bytes, or 0 for an unknown algorithm.
func (a HashAlgorithm) Size() int {
	switch a {
	case HashSHA1:
		return sha1.Size
	case HashSHA224:
		return sha256.Size224
	case HashSHA256:
		return sha256.Size
	case HashSHA384:
		return sha512.Size384
	case HashSHA512:
		return sha512.Size
	}
	return 0
}

// Available reports whether the algorithm has an implementation.
func (a HashAlgorithm) Available() bool {
	return a.constructor() != nil
}

// CryptoHash maps the algorithm onto crypto.Hash.
func (a HashAlgorithm) CryptoHash() crypto.Hash {
	switch a {
	case HashSHA1:
		return crypto.SHA1
	case HashSHA224:
		return crypto.SHA224
	case HashSHA256:
		return crypto.SHA256
	case HashSHA384:
		return crypto.SHA384
	case HashSHA512:
		return crypto.SHA512
	}
	return 0
}

func (a HashAlgorithm) constructor() func() hash.Hash {
	switch a {
	case HashSHA1:
		return sha1.New
	case HashSHA224:
		return sha256.New224
	case HashSHA256:
		return sha256.New
	case HashSHA384:
		return sha512.New384
	case HashSHA512:
		return sha512.New
	}
	return nil
}

// ParseHashAlgorithm maps a name such as "SHA256" or "sha-384" onto a
// HashAlgorithm.
func ParseHashAlgorithm(name string) (HashAlgorithm, bool) {
	switch normalizeName(name) {
	case "sha1":
		return HashSHA1, true
	case "sha224":
		return HashSHA224, true
	case "sha256":
		return HashSHA256, true
	case "sha384":
		return HashSHA384, true
	case "sha512":
		return HashSHA512, true
	}
	return HashNone, false
}

// A HashAccumulator is a streaming digest that remembers which algorithm
// produced it. Sum must not disturb the running state.
type HashAccumulator interface {
	Algorithm() HashAlgorithm
	Sum(b []byte) []byte
}

// Digest is the standard HashAccumulator.
type Digest struct {
	alg HashAlgorithm
	h   hash.Hash
}

// NewDigest starts an empty digest.
func NewDigest(alg HashAlgorithm) (*Digest, error) {
	h := alg.Hash()
	if h == nil {
		return nil, ErrUnsupportedHash
	}
	return &Digest{alg: alg, h: h}, nil
}

// Write adds more data to the running hash. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum appends the current digest to b without changing the running state.
func (d *Digest) Sum(b []byte) []byte {
	return d.h.Sum(b)
}

// Algorithm returns the hash the digest is computed with.
func (d *Digest) Algorithm() HashAlgorithm {
	return d.alg
}

// Reset clears the running state.
func (d *Digest) Reset() {
	d.h.Reset()
}

type prehashed struct {
	alg HashAlgorithm
	sum []byte
}

// PrehashedDigest wraps an already finalized digest value.
func PrehashedDigest(alg HashAlgorithm, sum []byte) (HashAccumulator, error) {
	if !alg.Available() {
		return nil, ErrUnsupportedHash
	}
	if len(sum) != alg.Size() {
		return nil, ErrSchemeMismatch
	}
	return prehashed{alg: alg, sum: append([]byte(nil), sum...)}, nil
}

func (p prehashed) Algorithm() HashAlgorithm { return p.alg }
func (p prehashed) Sum(b []byte) []byte      { return append(b, p.sum...) }
