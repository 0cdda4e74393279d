package tlscore

import (
	"bytes"
	"errors"
	"testing"
)

// TestSecureZeroingWorks validates that our secure zeroing implementation works
func TestSecureZeroingWorks(t *testing.T) {
	testData := []byte("sensitive_data_32_bytes_long!!!")
	originalData := bytes.Clone(testData)

	secureZero(testData)

	if !bytes.Equal(testData, make([]byte, len(originalData))) {
		t.Errorf("secureZero failed: expected all zeros, got %x", testData)
	}
}

func TestSecretDestroyWipesBuffer(t *testing.T) {
	s, err := newSecret([]byte("premaster secret material"))
	if err != nil {
		t.Fatal(err)
	}
	alias := s.Bytes()

	s.Destroy()
	if !bytes.Equal(alias, make([]byte, len(alias))) {
		t.Errorf("buffer not wiped: %x", alias)
	}
	if !s.Destroyed() || s.Len() != 0 || s.Bytes() != nil {
		t.Error("destroyed secret still reports contents")
	}

	// Idempotent, so it can be deferred on every path.
	s.Destroy()
}

func TestSecretCopiesInput(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	s, err := newSecret(in)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()
	in[0] = 0xff
	if s.Bytes()[0] != 1 {
		t.Error("secret aliases caller buffer")
	}
}

func TestSecretAllocationBound(t *testing.T) {
	if _, err := newSecret(make([]byte, MaxPremasterSecretLen+1)); !errors.Is(err, ErrAllocationFailure) {
		t.Fatalf("got %v, want ErrAllocationFailure", err)
	}
	if _, err := newSecret(make([]byte, MaxPremasterSecretLen)); err != nil {
		t.Fatalf("secret at the bound rejected: %v", err)
	}
}

// TestDerivationWipesPremaster checks that the combined premaster secret is
// zeroed as soon as the master secret has been derived, and on failure too.
func TestDerivationWipesPremaster(t *testing.T) {
	var client, server Random

	for _, tc := range []struct {
		name string
		alg  HashAlgorithm
		ok   bool
	}{
		{"success", HashSHA256, true},
		{"unsupported hash", HashNone, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pms := newCombined(t, bytes.Repeat([]byte{0xaa}, 48), bytes.Repeat([]byte{0xbb}, 32))
			alias := pms.Bytes()

			ms, err := DeriveMasterSecret(pms, client, server, tc.alg)
			if tc.ok != (err == nil) {
				t.Fatalf("unexpected result: %v", err)
			}
			if !bytes.Equal(alias, make([]byte, len(alias))) {
				t.Errorf("premaster not wiped: %x", alias)
			}
			if ms != nil {
				msAlias := ms.Bytes()
				ms.Destroy()
				if !bytes.Equal(msAlias, make([]byte, MasterSecretLen)) {
					t.Errorf("master secret not wiped: %x", msAlias)
				}
			}
		})
	}
}

func TestKeyDestroy(t *testing.T) {
	dh, err := DH25519.GenerateKeypair(nil)
	if err != nil {
		t.Fatal(err)
	}
	priv := dh.Private
	dh.Destroy()
	if dh.Private != nil || !bytes.Equal(priv, make([]byte, len(priv))) {
		t.Error("DH private key not wiped")
	}

	kemKey, err := KEMMLKEM512.GenerateKeypair(nil)
	if err != nil {
		t.Fatal(err)
	}
	priv = kemKey.Private
	kemKey.Destroy()
	if kemKey.Private != nil || !bytes.Equal(priv, make([]byte, len(priv))) {
		t.Error("KEM private key not wiped")
	}
}
