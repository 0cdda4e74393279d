package tlscore

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestEMSAPSSEncodeVerify(t *testing.T) {
	mHash := sha256.Sum256([]byte("pss"))
	salt := bytes.Repeat([]byte{0x5a}, sha256.Size)

	for _, emBits := range []int{1023, 1024, 1027, 2047} {
		em, err := emsaPSSEncode(HashSHA256, mHash[:], emBits, salt)
		if err != nil {
			t.Fatalf("emBits %d: encode: %v", emBits, err)
		}
		if len(em) != (emBits+7)/8 {
			t.Fatalf("emBits %d: got %d bytes", emBits, len(em))
		}
		if em[len(em)-1] != 0xbc {
			t.Errorf("emBits %d: trailer %#x", emBits, em[len(em)-1])
		}
		if unused := 8*len(em) - emBits; unused > 0 && em[0]>>(8-unused) != 0 {
			t.Errorf("emBits %d: top bits set in %#x", emBits, em[0])
		}
		if !emsaPSSVerify(HashSHA256, mHash[:], em, emBits, SaltLengthEqualsHash) {
			t.Errorf("emBits %d: valid encoding rejected", emBits)
		}
		if !emsaPSSVerify(HashSHA256, mHash[:], em, emBits, SaltLengthAuto) {
			t.Errorf("emBits %d: valid encoding rejected with auto salt", emBits)
		}
	}
}

func TestEMSAPSSVerifyRejectsDefects(t *testing.T) {
	const emBits = 2047
	mHash := sha256.Sum256([]byte("pss"))
	salt := bytes.Repeat([]byte{0x11}, sha256.Size)
	good, err := emsaPSSEncode(HashSHA256, mHash[:], emBits, salt)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(em []byte) []byte
	}{
		{"trailer", func(em []byte) []byte { em[len(em)-1] = 0xbd; return em }},
		{"top bit", func(em []byte) []byte { em[0] |= 0x80; return em }},
		{"masked db", func(em []byte) []byte { em[10] ^= 0x01; return em }},
		{"hash", func(em []byte) []byte { em[len(em)-2] ^= 0x01; return em }},
		{"short", func(em []byte) []byte { return em[1:] }},
		{"long", func(em []byte) []byte { return append([]byte{0}, em...) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := tt.mutate(bytes.Clone(good))
			if emsaPSSVerify(HashSHA256, mHash[:], em, emBits, SaltLengthEqualsHash) {
				t.Error("defective encoding accepted")
			}
			if emsaPSSVerify(HashSHA256, mHash[:], em, emBits, SaltLengthAuto) {
				t.Error("defective encoding accepted with auto salt")
			}
		})
	}

	other := sha256.Sum256([]byte("other"))
	if emsaPSSVerify(HashSHA256, other[:], good, emBits, SaltLengthEqualsHash) {
		t.Error("encoding accepted for a different digest")
	}
}

func TestEMSAPSSSaltLengths(t *testing.T) {
	const emBits = 1023
	mHash := sha256.Sum256([]byte("salt"))
	for _, sLen := range []int{0, 1, 20, 32, 64} {
		em, err := emsaPSSEncode(HashSHA256, mHash[:], emBits, bytes.Repeat([]byte{0x42}, sLen))
		if err != nil {
			t.Fatalf("salt %d: %v", sLen, err)
		}
		if !emsaPSSVerify(HashSHA256, mHash[:], em, emBits, SaltLengthAuto) {
			t.Errorf("salt %d: rejected with auto salt", sLen)
		}
		if got, want := emsaPSSVerify(HashSHA256, mHash[:], em, emBits, SaltLengthEqualsHash), sLen == sha256.Size; got != want {
			t.Errorf("salt %d: equals-hash policy returned %v", sLen, got)
		}
	}
}

func TestEMSAPSSEncodeKeyTooSmall(t *testing.T) {
	mHash := make([]byte, 64)
	if _, err := emsaPSSEncode(HashSHA512, mHash, 1000, make([]byte, 64)); err == nil {
		t.Fatal("expected error for a modulus that cannot hold the encoding")
	}
	if _, err := emsaPSSEncode(HashSHA256, mHash, 2047, nil); err != ErrSchemeMismatch {
		t.Fatalf("got %v, want ErrSchemeMismatch", err)
	}
}

func TestEMSAPKCS1v15Encode(t *testing.T) {
	hashed := sha256.Sum256([]byte("pkcs1"))
	em, err := emsaPKCS1v15Encode(HashSHA256, hashed[:], 256)
	if err != nil {
		t.Fatal(err)
	}
	prefix := pkcs1Prefixes[HashSHA256]
	tLen := len(prefix) + len(hashed)

	if em[0] != 0x00 || em[1] != 0x01 {
		t.Fatalf("bad header %x", em[:2])
	}
	for i := 2; i < len(em)-tLen-1; i++ {
		if em[i] != 0xff {
			t.Fatalf("padding byte %d = %#x", i, em[i])
		}
	}
	if em[len(em)-tLen-1] != 0x00 {
		t.Fatal("missing separator")
	}
	if !bytes.Equal(em[len(em)-tLen:], append(bytes.Clone(prefix), hashed[:]...)) {
		t.Fatal("DigestInfo mismatch")
	}

	if _, err := emsaPKCS1v15Encode(HashNone, hashed[:], 256); err != ErrUnsupportedHash {
		t.Fatalf("got %v, want ErrUnsupportedHash", err)
	}
	if _, err := emsaPKCS1v15Encode(HashSHA512, make([]byte, 64), 64); err == nil {
		t.Fatal("expected error for a block too small for SHA-512")
	}
}
