package tlscore

import (
	"crypto/subtle"
	"fmt"
)

var errKeyTooSmall = fmt.Errorf("%w: modulus too small for scheme", ErrIncompatibleKeyForScheme)

// DigestInfo prefixes for EMSA-PKCS1-v1_5 (RFC 8017 section 9.2, note 1).
var pkcs1Prefixes = map[HashAlgorithm][]byte{
	HashSHA1:   {0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a, 0x05, 0x00, 0x04, 0x14},
	HashSHA224: {0x30, 0x2d, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x04, 0x05, 0x00, 0x04, 0x1c},
	HashSHA256: {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
	HashSHA384: {0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30},
	HashSHA512: {0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40},
}

// emsaPKCS1v15Encode builds the k-byte block 00 01 FF..FF 00 || DigestInfo.
func emsaPKCS1v15Encode(alg HashAlgorithm, hashed []byte, k int) ([]byte, error) {
	prefix, ok := pkcs1Prefixes[alg]
	if !ok {
		return nil, ErrUnsupportedHash
	}
	if len(hashed) != alg.Size() {
		return nil, ErrSchemeMismatch
	}
	tLen := len(prefix) + len(hashed)
	if k < tLen+11 {
		return nil, errKeyTooSmall
	}
	em := make([]byte, k)
	em[1] = 0x01
	for i := 2; i < k-tLen-1; i++ {
		em[i] = 0xff
	}
	copy(em[k-tLen:k-len(hashed)], prefix)
	copy(em[k-len(hashed):], hashed)
	return em, nil
}

// mgf1XOR XORs out with MGF1(seed) as defined in RFC 8017 appendix B.2.1.
func mgf1XOR(out []byte, alg HashAlgorithm, seed []byte) {
	var counter [4]byte
	var digest []byte
	h := alg.Hash()
	done := 0
	for done < len(out) {
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		digest = h.Sum(digest[:0])
		for i := 0; i < len(digest) && done < len(out); i++ {
			out[done] ^= digest[i]
			done++
		}
		for i := len(counter) - 1; i >= 0; i-- {
			counter[i]++
			if counter[i] != 0 {
				break
			}
		}
	}
}

// pssHash computes H = Hash(0x00*8 || mHash || salt).
func pssHash(alg HashAlgorithm, mHash, salt, out []byte) []byte {
	var prefix [8]byte
	h := alg.Hash()
	h.Write(prefix[:])
	h.Write(mHash)
	h.Write(salt)
	return h.Sum(out)
}

// emsaPSSEncode implements EMSA-PSS-ENCODE (RFC 8017 section 9.1.1). The
// result is ceil(emBits/8) bytes long and ends with the 0xbc trailer.
func emsaPSSEncode(alg HashAlgorithm, mHash []byte, emBits int, salt []byte) ([]byte, error) {
	hLen := alg.Size()
	sLen := len(salt)
	emLen := (emBits + 7) / 8
	if len(mHash) != hLen {
		return nil, ErrSchemeMismatch
	}
	if emLen < hLen+sLen+2 {
		return nil, errKeyTooSmall
	}

	em := make([]byte, emLen)
	psLen := emLen - sLen - hLen - 2
	db := em[:psLen+1+sLen]
	h := em[psLen+1+sLen : emLen-1]

	h = pssHash(alg, mHash, salt, h[:0])

	db[psLen] = 0x01
	copy(db[psLen+1:], salt)
	mgf1XOR(db, alg, h)
	db[0] &= 0xff >> (8*emLen - emBits)
	em[emLen-1] = 0xbc
	return em, nil
}

// emsaPSSVerify implements EMSA-PSS-VERIFY (RFC 8017 section 9.1.2). Every
// check is folded into a single flag so that a defect in the trailer, the
// padding, the salt length or the hash is indistinguishable from any other,
// in the result and in the sequence of operations performed.
func emsaPSSVerify(alg HashAlgorithm, mHash, em []byte, emBits int, policy SaltLengthPolicy) bool {
	hLen := alg.Size()
	emLen := (emBits + 7) / 8
	if hLen == 0 || len(mHash) != hLen || len(em) != emLen || emLen < hLen+2 {
		return false
	}
	if policy == SaltLengthEqualsHash && emLen < 2*hLen+2 {
		return false
	}

	ok := subtle.ConstantTimeByteEq(em[emLen-1], 0xbc)

	db := make([]byte, emLen-hLen-1)
	copy(db, em[:emLen-hLen-1])
	h := em[emLen-hLen-1 : emLen-1]

	topMask := byte(0xff >> (8*emLen - emBits))
	ok &= subtle.ConstantTimeByteEq(db[0]&^topMask, 0)

	mgf1XOR(db, alg, h)
	db[0] &= topMask

	var saltStart int
	switch policy {
	case SaltLengthEqualsHash:
		psLen := emLen - 2*hLen - 2
		for _, b := range db[:psLen] {
			ok &= subtle.ConstantTimeByteEq(b, 0x00)
		}
		ok &= subtle.ConstantTimeByteEq(db[psLen], 0x01)
		saltStart = psLen + 1
	default:
		// Find the first 0x01 without branching on the byte values.
		looking, idx := 1, 0
		for i, b := range db {
			isZero := subtle.ConstantTimeByteEq(b, 0x00)
			isOne := subtle.ConstantTimeByteEq(b, 0x01)
			ok &= subtle.ConstantTimeSelect(looking, isZero|isOne, 1)
			hit := looking & isOne
			idx = subtle.ConstantTimeSelect(hit, i, idx)
			looking &^= hit
		}
		ok &= looking ^ 1
		saltStart = idx + 1
	}

	want := pssHash(alg, mHash, db[saltStart:], nil)
	ok &= subtle.ConstantTimeCompare(h, want)
	return ok == 1
}
