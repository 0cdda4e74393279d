package tlscore

// ClassicalSecret is the premaster secret part produced by RSA key
// transport or (EC)DHE.
type ClassicalSecret struct {
	Secret
}

// KEMSecret is the premaster secret part produced by a key encapsulation
// mechanism. Its length is whatever the negotiated mechanism yields.
type KEMSecret struct {
	Secret
}

// CombinedPremasterSecret is classical || kem. It is consumed by exactly one
// master secret derivation, which destroys it.
type CombinedPremasterSecret struct {
	Secret
}

// NewClassicalSecret copies b into a new classical part.
func NewClassicalSecret(b []byte) (*ClassicalSecret, error) {
	s, err := newSecret(b)
	if err != nil {
		return nil, err
	}
	return &ClassicalSecret{Secret: s}, nil
}

// NewKEMSecret copies b into a new KEM part.
func NewKEMSecret(b []byte) (*KEMSecret, error) {
	s, err := newSecret(b)
	if err != nil {
		return nil, err
	}
	return &KEMSecret{Secret: s}, nil
}

// Combine builds the premaster secret for the PRF. A nil kem selects the
// non-hybrid path and the result equals classical. Otherwise the result is
// classical followed by kem; the parts are typed so they cannot be swapped.
// The inputs are left untouched and remain owned by the caller.
func Combine(classical *ClassicalSecret, kem *KEMSecret) (*CombinedPremasterSecret, error) {
	if classical == nil || classical.Destroyed() {
		return nil, ErrSecretConsumed
	}
	if kem == nil {
		s, err := newSecret(classical.Bytes())
		if err != nil {
			return nil, err
		}
		return &CombinedPremasterSecret{Secret: s}, nil
	}
	if kem.Destroyed() {
		return nil, ErrSecretConsumed
	}
	if kem.Len() == 0 {
		return nil, ErrEmptyKEMSecret
	}

	n := classical.Len() + kem.Len()
	if n > MaxPremasterSecretLen {
		return nil, ErrAllocationFailure
	}
	buf := make([]byte, 0, n)
	buf = append(buf, classical.Bytes()...)
	buf = append(buf, kem.Bytes()...)
	return &CombinedPremasterSecret{Secret: Secret{b: buf}}, nil
}
