package tlscore

import "runtime"

// secureZero securely zeroes the provided byte slice to prevent sensitive data
// from remaining in memory. This function prevents the compiler from optimizing
// away the zeroing operation.
func secureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// Force compiler to not optimize away the zeroing
	runtime.KeepAlive(b)
}

// Secret is a heap buffer holding key material. The zero value is an empty
// secret. A Secret is owned by exactly one scope, which must
// call Destroy on exit; Destroy is idempotent so it is safe to defer it on
// every path.
type Secret struct {
	b         []byte
	destroyed bool
}

// newSecret copies b into a fresh buffer.
func newSecret(b []byte) (Secret, error) {
	if len(b) > MaxPremasterSecretLen {
		return Secret{}, ErrAllocationFailure
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	return Secret{b: buf}, nil
}

// Len returns the length of the secret in bytes, or 0 once destroyed.
func (s *Secret) Len() int {
	if s == nil || s.destroyed {
		return 0
	}
	return len(s.b)
}

// Bytes returns the underlying buffer. The slice aliases the secret and is
// wiped by Destroy, so callers must not retain it past the owning scope.
func (s *Secret) Bytes() []byte {
	if s == nil || s.destroyed {
		return nil
	}
	return s.b
}

// Destroyed reports whether Destroy has been called.
func (s *Secret) Destroyed() bool {
	return s == nil || s.destroyed
}

// Destroy wipes the secret.
func (s *Secret) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	secureZero(s.b)
	s.b = nil
	s.destroyed = true
}
