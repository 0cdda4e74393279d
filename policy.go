package tlscore

// A CompatibilityTable lists which key types each signature algorithm may be
// used with. A missing entry means disallowed. Tables are plain data so that
// deployments can state their policy explicitly instead of relying on a
// built-in default.
type CompatibilityTable map[SignatureAlgorithm]map[KeyType]bool

// DefaultCompatibilityTable is the strict table:
//
//	RSA (PKCS#1 v1.5)  -> RSA
//	RSA_PSS_RSAE       -> RSA, RSA_PSS
//	RSA_PSS_PSS        -> RSA_PSS
//	ECDSA              -> EC
//
// A key tagged RSA_PSS is never used for PKCS#1 v1.5.
func DefaultCompatibilityTable() CompatibilityTable {
	return CompatibilityTable{
		SignatureRSAPKCS1:   {KeyTypeRSA: true},
		SignatureRSAPSSRSAE: {KeyTypeRSA: true, KeyTypeRSAPSS: true},
		SignatureRSAPSSPSS:  {KeyTypeRSAPSS: true},
		SignatureECDSA:      {KeyTypeEC: true},
	}
}

// LegacyCompatibilityTable additionally lets RSA_PSS tagged keys produce and
// check PKCS#1 v1.5 signatures, for peers that predate RFC 8446.
func LegacyCompatibilityTable() CompatibilityTable {
	t := DefaultCompatibilityTable()
	t[SignatureRSAPKCS1][KeyTypeRSAPSS] = true
	return t
}

// Allows reports whether alg may be used with a key of type kt.
func (t CompatibilityTable) Allows(alg SignatureAlgorithm, kt KeyType) bool {
	return t[alg][kt]
}

// Clone returns a deep copy that can be edited independently.
func (t CompatibilityTable) Clone() CompatibilityTable {
	c := make(CompatibilityTable, len(t))
	for alg, types := range t {
		m := make(map[KeyType]bool, len(types))
		for kt, ok := range types {
			m[kt] = ok
		}
		c[alg] = m
	}
	return c
}

// Set changes a single entry.
func (t CompatibilityTable) Set(alg SignatureAlgorithm, kt KeyType, allowed bool) {
	if t[alg] == nil {
		t[alg] = make(map[KeyType]bool)
	}
	t[alg][kt] = allowed
}
