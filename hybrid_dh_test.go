package tlscore

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

var hybridGroups = []HybridKeyExchange{
	HybridX25519MLKEM512,
	HybridX25519MLKEM768,
	HybridX25519MLKEM1024,
	HybridP256MLKEM768,
	HybridP384MLKEM1024,
}

func TestHybridKeyExchangeRoundTrip(t *testing.T) {
	var clientRandom, serverRandom Random
	rand.Read(clientRandom[:])
	rand.Read(serverRandom[:])

	for _, h := range hybridGroups {
		t.Run(h.Name(), func(t *testing.T) {
			share, err := h.GenerateServerKeyShare(nil)
			if err != nil {
				t.Fatalf("GenerateServerKeyShare failed: %v", err)
			}
			defer share.Destroy()

			cClassical, cKEM, cke, err := h.Encapsulate(nil, share.DH.Public, share.KEM.Public)
			if err != nil {
				t.Fatalf("Encapsulate failed: %v", err)
			}
			if want := 1 + h.Classical.PublicKeyLen() + 2 + h.KEM.CiphertextLen(); len(cke) != want {
				t.Errorf("ClientKeyExchange length %d, want %d", len(cke), want)
			}

			sClassical, sKEM, err := h.Decapsulate(share, cke)
			if err != nil {
				t.Fatalf("Decapsulate failed: %v", err)
			}
			if !bytes.Equal(cClassical.Bytes(), sClassical.Bytes()) {
				t.Error("classical parts differ")
			}
			if !bytes.Equal(cKEM.Bytes(), sKEM.Bytes()) {
				t.Error("KEM parts differ")
			}
			if cClassical.Len() != h.Classical.DHLen() || cKEM.Len() != h.KEM.SharedSecretLen() {
				t.Errorf("part lengths %d/%d", cClassical.Len(), cKEM.Len())
			}

			derive := func(c *ClassicalSecret, k *KEMSecret) []byte {
				pms, err := Combine(c, k)
				if err != nil {
					t.Fatalf("Combine failed: %v", err)
				}
				ms, err := DeriveHybridMasterSecret(pms, clientRandom, serverRandom, cke, HashSHA384)
				if err != nil {
					t.Fatalf("DeriveHybridMasterSecret failed: %v", err)
				}
				if !pms.Destroyed() {
					t.Error("combined premaster secret was not consumed")
				}
				return ms.Bytes()
			}
			if !bytes.Equal(derive(cClassical, cKEM), derive(sClassical, sKEM)) {
				t.Error("client and server master secrets differ")
			}
		})
	}
}

func TestHybridDecapsulateTamperedCiphertext(t *testing.T) {
	h := HybridX25519MLKEM768
	share, err := h.GenerateServerKeyShare(nil)
	if err != nil {
		t.Fatal(err)
	}
	_, cKEM, cke, err := h.Encapsulate(nil, share.DH.Public, share.KEM.Public)
	if err != nil {
		t.Fatal(err)
	}

	cke[len(cke)-1] ^= 0x80
	_, sKEM, err := h.Decapsulate(share, cke)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if bytes.Equal(cKEM.Bytes(), sKEM.Bytes()) {
		t.Error("tampered ciphertext produced the client's KEM secret")
	}
}

func TestHybridDecapsulateRejectsBadInput(t *testing.T) {
	h := HybridP256MLKEM768
	share, err := h.GenerateServerKeyShare(nil)
	if err != nil {
		t.Fatal(err)
	}
	_, _, cke, err := h.Encapsulate(nil, share.DH.Public, share.KEM.Public)
	if err != nil {
		t.Fatal(err)
	}
	point, ct, err := ParseClientKeyExchange(cke)
	if err != nil {
		t.Fatal(err)
	}

	shortPoint, _ := MarshalClientKeyExchange(point[:len(point)-1], ct)
	shortCT, _ := MarshalClientKeyExchange(point, ct[:len(ct)-1])

	tests := []struct {
		name string
		cke  []byte
		want error
	}{
		{"empty", nil, ErrMalformedClientKeyExchange},
		{"trailing data", append(bytes.Clone(cke), 0), ErrMalformedClientKeyExchange},
		{"truncated", cke[:len(cke)-1], ErrMalformedClientKeyExchange},
		{"short point", shortPoint, ErrInvalidDHPublicKey},
		{"short ciphertext", shortCT, ErrInvalidKEMCiphertext},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := h.Decapsulate(share, tt.cke); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, _, err := h.Decapsulate(nil, cke); !errors.Is(err, ErrKeyInitialization) {
		t.Errorf("nil share: got %v", err)
	}
	if _, _, _, err := h.Encapsulate(nil, share.DH.Public[:10], share.KEM.Public); !errors.Is(err, ErrInvalidDHPublicKey) {
		t.Errorf("bad server point: got %v", err)
	}
	if _, _, _, err := h.Encapsulate(nil, share.DH.Public, share.KEM.Public[:10]); !errors.Is(err, ErrInvalidKEMPublicKey) {
		t.Errorf("bad server KEM key: got %v", err)
	}
}

func TestClientKeyExchangeEncoding(t *testing.T) {
	point := []byte{0x04, 0x01, 0x02}
	ct := bytes.Repeat([]byte{0xaa}, 300)

	cke, err := MarshalClientKeyExchange(point, ct)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0x03, 0x04, 0x01, 0x02, 0x01, 0x2c}, ct...)
	if !bytes.Equal(cke, want) {
		t.Fatalf("got %x", cke[:8])
	}

	p, c, err := ParseClientKeyExchange(cke)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, point) || !bytes.Equal(c, ct) {
		t.Error("round trip mismatch")
	}

	if _, err := MarshalClientKeyExchange(nil, ct); !errors.Is(err, ErrMalformedClientKeyExchange) {
		t.Errorf("empty point: got %v", err)
	}
	if _, err := MarshalClientKeyExchange(point, nil); !errors.Is(err, ErrMalformedClientKeyExchange) {
		t.Errorf("empty ciphertext: got %v", err)
	}
	if _, err := MarshalClientKeyExchange(bytes.Repeat([]byte{1}, 256), ct); err == nil {
		t.Error("expected an error for a point longer than 255 bytes")
	}
	if _, _, err := ParseClientKeyExchange([]byte{0x00, 0x00, 0x01, 0xaa}); !errors.Is(err, ErrMalformedClientKeyExchange) {
		t.Errorf("empty point field: got %v", err)
	}
}

func TestHybridGroupNames(t *testing.T) {
	names := map[string]bool{}
	for _, h := range hybridGroups {
		names[h.Name()] = true
	}
	for _, want := range []string{"x25519+MLKEM768", "secp256r1+MLKEM768", "secp384r1+MLKEM1024"} {
		if !names[want] {
			t.Errorf("missing group %s", want)
		}
	}
}
