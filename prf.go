package tlscore

import (
	"crypto/hmac"
	"hash"
)

// Random is a ClientHello or ServerHello random value.
type Random [RandomLen]byte

// NewRandom copies b, which must be exactly RandomLen bytes.
func NewRandom(b []byte) (Random, error) {
	var r Random
	if len(b) != RandomLen {
		return r, ErrInvalidRandom
	}
	copy(r[:], b)
	return r, nil
}

// pHash fills out with P_hash(secret, seed) from RFC 5246 section 5.
func pHash(h func() hash.Hash, out, secret, seed []byte) {
	mac := hmac.New(h, secret)
	mac.Write(seed)
	a := mac.Sum(nil)

	var block []byte
	for j := 0; j < len(out); {
		mac.Reset()
		mac.Write(a)
		mac.Write(seed)
		block = mac.Sum(block[:0])
		j += copy(out[j:], block)

		mac.Reset()
		mac.Write(a)
		a = mac.Sum(a[:0])
	}
	secureZero(a)
	secureZero(block)
}

// PRF is the TLS 1.2 pseudorandom function, PRF(secret, label, seed) =
// P_<alg>(secret, label || seed), truncated to n bytes. The hash is chosen by
// the negotiated cipher suite.
func PRF(alg HashAlgorithm, secret []byte, label string, seed []byte, n int) ([]byte, error) {
	h := alg.constructor()
	if h == nil {
		return nil, ErrUnsupportedHash
	}
	if n < 0 {
		n = 0
	}
	labelAndSeed := make([]byte, 0, len(label)+len(seed))
	labelAndSeed = append(labelAndSeed, label...)
	labelAndSeed = append(labelAndSeed, seed...)

	out := make([]byte, n)
	pHash(h, out, secret, labelAndSeed)
	return out, nil
}

// MasterSecret is the 48-byte TLS 1.2 master secret. It lives as long as
// the connection and must be destroyed on teardown.
type MasterSecret struct {
	Secret
}

// NewMasterSecret copies an existing master secret, as restored from a
// session ticket or cache.
func NewMasterSecret(b []byte) (*MasterSecret, error) {
	if len(b) != MasterSecretLen {
		return nil, ErrInvalidMasterSecret
	}
	s, err := newSecret(b)
	if err != nil {
		return nil, err
	}
	return &MasterSecret{Secret: s}, nil
}

// deriveMaster consumes pms on every path, successful or not.
func deriveMaster(pms *CombinedPremasterSecret, alg HashAlgorithm, label string, seed ...[]byte) (*MasterSecret, error) {
	if pms == nil || pms.Destroyed() {
		return nil, ErrSecretConsumed
	}
	defer pms.Destroy()

	var n int
	for _, s := range seed {
		n += len(s)
	}
	joined := make([]byte, 0, n)
	for _, s := range seed {
		joined = append(joined, s...)
	}

	out, err := PRF(alg, pms.Bytes(), label, joined, MasterSecretLen)
	if err != nil {
		return nil, err
	}
	return &MasterSecret{Secret: Secret{b: out}}, nil
}

// DeriveMasterSecret computes
//
//	PRF(pms, "master secret", client_random || server_random)[0:48]
//
// and destroys pms. A second call with the same pms fails with
// ErrSecretConsumed.
func DeriveMasterSecret(pms *CombinedPremasterSecret, client, server Random, alg HashAlgorithm) (*MasterSecret, error) {
	return deriveMaster(pms, alg, masterSecretLabel, client[:], server[:])
}

// DeriveHybridMasterSecret computes the hybrid key exchange master secret
//
//	PRF(pms, "hybrid master secret", client_random || server_random || cke)[0:48]
//
// where cke is the ClientKeyExchange body, and destroys pms.
func DeriveHybridMasterSecret(pms *CombinedPremasterSecret, client, server Random, cke []byte, alg HashAlgorithm) (*MasterSecret, error) {
	return deriveMaster(pms, alg, hybridMasterSecretLabel, client[:], server[:], cke)
}

// DeriveExtendedMasterSecret computes the RFC 7627 master secret
//
//	PRF(pms, "extended master secret", session_hash)[0:48]
//
// and destroys pms.
func DeriveExtendedMasterSecret(pms *CombinedPremasterSecret, sessionHash []byte, alg HashAlgorithm) (*MasterSecret, error) {
	return deriveMaster(pms, alg, extendedMasterSecretLabel, sessionHash)
}

// KeyBlock expands the master secret into n bytes of key material with
// label "key expansion" and seed server_random || client_random.
func (m *MasterSecret) KeyBlock(client, server Random, alg HashAlgorithm, n int) ([]byte, error) {
	if m == nil || m.Destroyed() {
		return nil, ErrSecretConsumed
	}
	seed := make([]byte, 0, 2*RandomLen)
	seed = append(seed, server[:]...)
	seed = append(seed, client[:]...)
	return PRF(alg, m.Bytes(), keyExpansionLabel, seed, n)
}

// FinishedVerifyData computes the 12-byte verify_data of a Finished message.
// label is ClientFinishedLabel or ServerFinishedLabel.
func (m *MasterSecret) FinishedVerifyData(label string, transcriptHash []byte, alg HashAlgorithm) ([]byte, error) {
	if m == nil || m.Destroyed() {
		return nil, ErrSecretConsumed
	}
	return PRF(alg, m.Bytes(), label, transcriptHash, FinishedVerifyDataLen)
}
