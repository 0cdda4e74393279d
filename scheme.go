package tlscore

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/cryptobyte"
)

// SignatureAlgorithm is the padding/key family of a signature scheme.
type SignatureAlgorithm uint8

const (
	SignatureAnonymous SignatureAlgorithm = iota
	// SignatureRSAPKCS1 is RSASSA-PKCS1-v1_5.
	SignatureRSAPKCS1
	// SignatureRSAPSSRSAE is RSASSA-PSS with an rsaEncryption key.
	SignatureRSAPSSRSAE
	// SignatureRSAPSSPSS is RSASSA-PSS with an id-RSASSA-PSS key.
	SignatureRSAPSSPSS
	SignatureECDSA
)

func (a SignatureAlgorithm) String() string {
	switch a {
	case SignatureRSAPKCS1:
		return "RSA"
	case SignatureRSAPSSRSAE:
		return "RSA_PSS_RSAE"
	case SignatureRSAPSSPSS:
		return "RSA_PSS_PSS"
	case SignatureECDSA:
		return "ECDSA"
	}
	return "ANONYMOUS"
}

// IsPSS reports whether the algorithm uses PSS padding.
func (a SignatureAlgorithm) IsPSS() bool {
	return a == SignatureRSAPSSRSAE || a == SignatureRSAPSSPSS
}

// SaltLengthPolicy controls the PSS salt length accepted on verification.
type SaltLengthPolicy uint8

const (
	// SaltLengthEqualsHash requires the salt to be exactly the digest length,
	// as TLS 1.3 (RFC 8446 section 4.2.3) does for every PSS scheme.
	SaltLengthEqualsHash SaltLengthPolicy = iota
	// SaltLengthAuto accepts any salt length that fits the modulus.
	SaltLengthAuto
)

// A SignatureScheme names a signature algorithm together with the hash it
// signs and, for PSS, the salt length policy. ID is the TLS
// SignatureScheme code point, or zero for combinations without one.
type SignatureScheme struct {
	ID         uint16
	Name       string
	Algorithm  SignatureAlgorithm
	Hash       HashAlgorithm
	SaltLength SaltLengthPolicy
	// Curve is the named curve an ECDSA scheme is bound to in TLS 1.3, or
	// empty when any curve is acceptable.
	Curve string
}

func (s SignatureScheme) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%s+%s", s.Algorithm, s.Hash)
}

// NewSignatureScheme describes a scheme that has no TLS code point, such as
// RSA-PSS over SHA-224.
func NewSignatureScheme(alg SignatureAlgorithm, h HashAlgorithm, salt SaltLengthPolicy) SignatureScheme {
	return SignatureScheme{Algorithm: alg, Hash: h, SaltLength: salt}
}

// Registered TLS signature schemes (RFC 8446 section 4.2.3, RFC 5246 section 7.4.1.4.1).
var (
	RSAPKCS1SHA1   = SignatureScheme{ID: 0x0201, Name: "rsa_pkcs1_sha1", Algorithm: SignatureRSAPKCS1, Hash: HashSHA1}
	RSAPKCS1SHA224 = SignatureScheme{ID: 0x0301, Name: "rsa_pkcs1_sha224", Algorithm: SignatureRSAPKCS1, Hash: HashSHA224}
	RSAPKCS1SHA256 = SignatureScheme{ID: 0x0401, Name: "rsa_pkcs1_sha256", Algorithm: SignatureRSAPKCS1, Hash: HashSHA256}
	RSAPKCS1SHA384 = SignatureScheme{ID: 0x0501, Name: "rsa_pkcs1_sha384", Algorithm: SignatureRSAPKCS1, Hash: HashSHA384}
	RSAPKCS1SHA512 = SignatureScheme{ID: 0x0601, Name: "rsa_pkcs1_sha512", Algorithm: SignatureRSAPKCS1, Hash: HashSHA512}

	ECDSASHA1        = SignatureScheme{ID: 0x0203, Name: "ecdsa_sha1", Algorithm: SignatureECDSA, Hash: HashSHA1}
	ECDSASHA224      = SignatureScheme{ID: 0x0303, Name: "ecdsa_sha224", Algorithm: SignatureECDSA, Hash: HashSHA224}
	ECDSAP256SHA256  = SignatureScheme{ID: 0x0403, Name: "ecdsa_secp256r1_sha256", Algorithm: SignatureECDSA, Hash: HashSHA256, Curve: "P-256"}
	ECDSAP384SHA384  = SignatureScheme{ID: 0x0503, Name: "ecdsa_secp384r1_sha384", Algorithm: SignatureECDSA, Hash: HashSHA384, Curve: "P-384"}
	ECDSAP521SHA512  = SignatureScheme{ID: 0x0603, Name: "ecdsa_secp521r1_sha512", Algorithm: SignatureECDSA, Hash: HashSHA512, Curve: "P-521"}
	RSAPSSRSAESHA256 = SignatureScheme{ID: 0x0804, Name: "rsa_pss_rsae_sha256", Algorithm: SignatureRSAPSSRSAE, Hash: HashSHA256}
	RSAPSSRSAESHA384 = SignatureScheme{ID: 0x0805, Name: "rsa_pss_rsae_sha384", Algorithm: SignatureRSAPSSRSAE, Hash: HashSHA384}
	RSAPSSRSAESHA512 = SignatureScheme{ID: 0x0806, Name: "rsa_pss_rsae_sha512", Algorithm: SignatureRSAPSSRSAE, Hash: HashSHA512}
	RSAPSSPSSSHA256  = SignatureScheme{ID: 0x0809, Name: "rsa_pss_pss_sha256", Algorithm: SignatureRSAPSSPSS, Hash: HashSHA256}
	RSAPSSPSSSHA384  = SignatureScheme{ID: 0x080a, Name: "rsa_pss_pss_sha384", Algorithm: SignatureRSAPSSPSS, Hash: HashSHA384}
	RSAPSSPSSSHA512  = SignatureScheme{ID: 0x080b, Name: "rsa_pss_pss_sha512", Algorithm: SignatureRSAPSSPSS, Hash: HashSHA512}
)

// Preference order: PSS before PKCS#1, stronger hashes first.
var registeredSchemes = []SignatureScheme{
	ECDSAP256SHA256,
	ECDSAP384SHA384,
	ECDSAP521SHA512,
	RSAPSSRSAESHA256,
	RSAPSSRSAESHA384,
	RSAPSSRSAESHA512,
	RSAPSSPSSSHA256,
	RSAPSSPSSSHA384,
	RSAPSSPSSSHA512,
	RSAPKCS1SHA256,
	RSAPKCS1SHA384,
	RSAPKCS1SHA512,
	RSAPKCS1SHA224,
	ECDSASHA224,
	RSAPKCS1SHA1,
	ECDSASHA1,
}

// SupportedSignatureSchemes returns every registered scheme in preference
// order. The slice is a copy.
func SupportedSignatureSchemes() []SignatureScheme {
	return append([]SignatureScheme(nil), registeredSchemes...)
}

// LookupSignatureScheme finds a registered scheme by code point.
func LookupSignatureScheme(id uint16) (SignatureScheme, bool) {
	for _, s := range registeredSchemes {
		if s.ID == id {
			return s, true
		}
	}
	return SignatureScheme{}, false
}

// LookupSignatureSchemeByName finds a registered scheme by its IANA name.
// Case, dashes and underscores are ignored.
func LookupSignatureSchemeByName(name string) (SignatureScheme, bool) {
	n := normalizeName(name)
	for _, s := range registeredSchemes {
		if normalizeName(s.Name) == n {
			return s, true
		}
	}
	return SignatureScheme{}, false
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

// MarshalSignatureSchemes encodes a signature_algorithms extension body.
// Schemes without a code point are skipped.
func MarshalSignatureSchemes(schemes []SignatureScheme) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, s := range schemes {
			if s.ID != 0 {
				b.AddUint16(s.ID)
			}
		}
	})
	return b.Bytes()
}

// ParseSignatureSchemes decodes a signature_algorithms extension body.
// Unknown code points are dropped, as RFC 8446 requires peers to ignore them.
func ParseSignatureSchemes(data []byte) ([]SignatureScheme, error) {
	s := cryptobyte.String(data)
	var list cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&list) || !s.Empty() || list.Empty() || len(list)%2 != 0 {
		return nil, ErrMalformedExtension
	}
	var out []SignatureScheme
	for !list.Empty() {
		var id uint16
		if !list.ReadUint16(&id) {
			return nil, ErrMalformedExtension
		}
		if scheme, ok := LookupSignatureScheme(id); ok {
			out = append(out, scheme)
		}
	}
	return out, nil
}
