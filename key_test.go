package tlscore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSAKeyHandleValidation(t *testing.T) {
	priv, _, _ := testKeys(t)

	_, err := NewRSAKeyHandle(priv, KeyTypeEC)
	require.ErrorIs(t, err, ErrKeyInitialization)
	_, err = NewRSAKeyHandle(nil, KeyTypeRSA)
	require.ErrorIs(t, err, ErrKeyInitialization)

	n := priv.N.Bytes()
	e := big.NewInt(int64(priv.E)).Bytes()
	d := priv.D.Bytes()

	tests := map[string]struct{ n, e, d []byte }{
		"even modulus":   {append(append([]byte(nil), n[:len(n)-1]...), n[len(n)-1]&^1), e, d},
		"zero modulus":   {[]byte{0}, e, d},
		"small modulus":  {n[:64], e, nil},
		"exponent one":   {n, []byte{1}, d},
		"huge exponent":  {n, append([]byte{1}, make([]byte, 8)...), nil},
		"d out of range": {n, e, append([]byte{0xff}, n...)},
	}
	for name, tc := range tests {
		_, err := NewRSAKeyHandleFromParams(tc.n, tc.e, tc.d, KeyTypeRSA)
		assert.ErrorIs(t, err, ErrKeyInitialization, name)
	}

	k, err := NewRSAKeyHandleFromParams(n, e, nil, KeyTypeRSAPSS)
	require.NoError(t, err)
	assert.Equal(t, KeyTypeRSAPSS, k.Type())
	assert.False(t, k.HasPrivate())
}

func TestECKeyHandle(t *testing.T) {
	_, p256, _ := testKeys(t)
	k, err := NewECKeyHandle(p256)
	require.NoError(t, err)
	assert.Equal(t, KeyTypeEC, k.Type())
	assert.True(t, k.HasPrivate())

	pub, err := NewECPublicKeyHandle(&p256.PublicKey)
	require.NoError(t, err)
	assert.False(t, pub.HasPrivate())

	bad := &ecdsa.PublicKey{Curve: elliptic.P256(), X: big.NewInt(1), Y: big.NewInt(1)}
	_, err = NewECPublicKeyHandle(bad)
	require.ErrorIs(t, err, ErrKeyInitialization)
}

func selfSigned(t *testing.T, pub, priv any) *x509.Certificate {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "tlscore test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, pub, priv)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func TestKeyHandleFromCertificate(t *testing.T) {
	priv, p256, _ := testKeys(t)

	k, err := KeyHandleFromCertificate(selfSigned(t, &priv.PublicKey, priv), nil)
	require.NoError(t, err)
	assert.Equal(t, KeyTypeRSA, k.Type())
	assert.True(t, priv.PublicKey.Equal(k.Public().(*rsa.PublicKey)))

	k, err = KeyHandleFromCertificate(selfSigned(t, &p256.PublicKey, p256), nil)
	require.NoError(t, err)
	assert.Equal(t, KeyTypeEC, k.Type())

	_, err = KeyHandleFromCertificate(nil, nil)
	require.ErrorIs(t, err, ErrKeyInitialization)
}

func TestKeyTypeString(t *testing.T) {
	assert.Equal(t, "RSA", KeyTypeRSA.String())
	assert.Equal(t, "RSA_PSS", KeyTypeRSAPSS.String())
	assert.Equal(t, "EC", KeyTypeEC.String())
	assert.Equal(t, "UNKNOWN", KeyTypeUnknown.String())
}
