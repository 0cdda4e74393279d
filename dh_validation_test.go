package tlscore

import (
	"bytes"
	"errors"
	"testing"
)

func TestDH25519_InvalidPublicKeyValidation(t *testing.T) {
	dh := dh25519{}

	privkey := make([]byte, 32)
	for i := range privkey {
		privkey[i] = byte(i + 1)
	}

	testCases := []struct {
		name         string
		pubkey       []byte
		shouldReject bool
	}{
		{"all-zero point", make([]byte, 32), true},
		{"point of order 2", append([]byte{1}, make([]byte, 31)...), true},
		{"wrong length - too short", make([]byte, 31), true},
		{"wrong length - too long", make([]byte, 33), true},
		// X25519 masks the top bit, so this decodes to a valid u-coordinate.
		{"high bit set", bytes.Repeat([]byte{0xff}, 32), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := dh.DH(privkey, tc.pubkey)
			if !tc.shouldReject {
				if err != nil {
					t.Errorf("Expected DH to accept the point, but it failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected DH to reject %s, but it returned %x", tc.name, result)
			}
			if !errors.Is(err, ErrInvalidDHPublicKey) {
				t.Errorf("got %v, want ErrInvalidDHPublicKey", err)
			}
		})
	}

	if _, err := dh.DH(privkey[:31], bytes.Repeat([]byte{9}, 32)); !errors.Is(err, ErrKeyInitialization) {
		t.Errorf("short private key: got %v, want ErrKeyInitialization", err)
	}
}

func TestDHNIST_InvalidPublicKeyValidation(t *testing.T) {
	for _, dh := range []DHFunc{DHP256, DHP384} {
		t.Run(dh.DHName(), func(t *testing.T) {
			key, err := dh.GenerateKeypair(nil)
			if err != nil {
				t.Fatalf("GenerateKeypair failed: %v", err)
			}
			defer key.Destroy()

			notOnCurve := make([]byte, dh.PublicKeyLen())
			notOnCurve[0] = 0x04
			notOnCurve[len(notOnCurve)/2] = 1
			notOnCurve[len(notOnCurve)-1] = 1

			compressed := append([]byte{0x02 | key.Public[len(key.Public)-1]&1}, key.Public[1:1+dh.DHLen()]...)

			for name, pub := range map[string][]byte{
				"identity":     {0x00},
				"not on curve": notOnCurve,
				"compressed":   compressed,
				"truncated":    key.Public[:len(key.Public)-1],
			} {
				if _, err := dh.DH(key.Private, pub); !errors.Is(err, ErrInvalidDHPublicKey) {
					t.Errorf("%s: got %v, want ErrInvalidDHPublicKey", name, err)
				}
			}

			if _, err := dh.DH(make([]byte, len(key.Private)), key.Public); !errors.Is(err, ErrKeyInitialization) {
				t.Errorf("zero scalar: got %v, want ErrKeyInitialization", err)
			}
		})
	}
}

func TestDH_ValidPublicKeyAccepted(t *testing.T) {
	for _, dh := range []DHFunc{DH25519, DHP256, DHP384} {
		t.Run(dh.DHName(), func(t *testing.T) {
			keypair1, err := dh.GenerateKeypair(nil)
			if err != nil {
				t.Fatalf("Failed to generate keypair1: %v", err)
			}
			keypair2, err := dh.GenerateKeypair(nil)
			if err != nil {
				t.Fatalf("Failed to generate keypair2: %v", err)
			}
			if len(keypair1.Public) != dh.PublicKeyLen() {
				t.Errorf("public key length %d, want %d", len(keypair1.Public), dh.PublicKeyLen())
			}

			result1, err := dh.DH(keypair1.Private, keypair2.Public)
			if err != nil {
				t.Fatalf("Valid DH operation failed: %v", err)
			}
			result2, err := dh.DH(keypair2.Private, keypair1.Public)
			if err != nil {
				t.Fatalf("Valid DH operation failed: %v", err)
			}
			if len(result1) != dh.DHLen() {
				t.Errorf("shared secret length %d, want %d", len(result1), dh.DHLen())
			}
			if !bytes.Equal(result1, result2) {
				t.Errorf("DH results differ: %x vs %x", result1, result2)
			}
		})
	}
}

func TestGenerateRSAPremaster(t *testing.T) {
	pms, err := GenerateRSAPremaster(nil, 0x0303)
	if err != nil {
		t.Fatal(err)
	}
	defer pms.Destroy()
	if pms.Len() != RSAPremasterLen {
		t.Fatalf("length %d, want %d", pms.Len(), RSAPremasterLen)
	}
	if b := pms.Bytes(); b[0] != 0x03 || b[1] != 0x03 {
		t.Errorf("version bytes %x", b[:2])
	}

	if _, err := GenerateRSAPremaster(bytes.NewReader(make([]byte, 10)), 0x0303); err == nil {
		t.Error("expected an error from a short random source")
	}
}
