package tlscore

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// katRecord is one "count = N" block of a known-answer file.
type katRecord struct {
	count   int
	line    int
	fields  map[string]string
	comment string
}

func (r katRecord) hex(key string) ([]byte, error) {
	v, ok := r.fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: count %d (line %d): missing %s", ErrMalformedVector, r.count, r.line, key)
	}
	b, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%w: count %d: %s: %v", ErrMalformedVector, r.count, key, err)
	}
	return b, nil
}

func (r katRecord) fixedHex(key string, n int) ([]byte, error) {
	b, err := r.hex(key)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, fmt.Errorf("%w: count %d: %s is %d bytes, want %d", ErrMalformedVector, r.count, key, len(b), n)
	}
	return b, nil
}

// lengthHex reads a hex field whose length is given by the decimal field
// key+"_length".
func (r katRecord) lengthHex(key string) ([]byte, error) {
	v, ok := r.fields[key+"_length"]
	if !ok {
		return nil, fmt.Errorf("%w: count %d: missing %s_length", ErrMalformedVector, r.count, key)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: count %d: bad %s_length %q", ErrMalformedVector, r.count, key, v)
	}
	return r.fixedHex(key, n)
}

// readKATRecords splits r into records. Blank lines and lines starting
// with '#' or '[' are skipped; text before the first count marker is ignored.
func readKATRecords(r io.Reader) ([]katRecord, error) {
	var (
		records []katRecord
		cur     *katRecord
		lineNo  int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '[' {
			continue
		}
		if line[0] == '#' {
			if cur != nil && cur.comment == "" {
				cur.comment = strings.TrimSpace(line[1:])
			}
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			if cur == nil {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedVector, lineNo, line)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "count" {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad count %q", ErrMalformedVector, lineNo, value)
			}
			records = append(records, katRecord{count: n, line: lineNo, fields: map[string]string{}})
			cur = &records[len(records)-1]
			continue
		}
		if cur == nil {
			continue
		}
		if _, dup := cur.fields[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate %s", ErrMalformedVector, lineNo, key)
		}
		cur.fields[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if rec.count != i {
			return nil, fmt.Errorf("%w: line %d: count %d, want %d", ErrMalformedVector, rec.line, rec.count, i)
		}
	}
	return records, nil
}

// HybridPRFVector is one record of a hybrid PRF known-answer file.
type HybridPRFVector struct {
	Count             int
	ClassicSecret     []byte
	KEMSecret         []byte
	ClientRandom      Random
	ServerRandom      Random
	ClientKeyExchange []byte
	MasterSecret      []byte
}

// ReadHybridPRFVectors parses a hybrid PRF known-answer file. Counts must
// run 0, 1, 2, ... and the file must hold exactly want vectors.
func ReadHybridPRFVectors(r io.Reader, want int) ([]HybridPRFVector, error) {
	records, err := readKATRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) != want {
		return nil, fmt.Errorf("%w: found %d, want %d", ErrVectorCount, len(records), want)
	}

	vectors := make([]HybridPRFVector, 0, len(records))
	for _, rec := range records {
		v := HybridPRFVector{Count: rec.count}
		if v.ClassicSecret, err = rec.fixedHex("premaster_classic_secret", RSAPremasterLen); err != nil {
			return nil, err
		}
		if v.KEMSecret, err = rec.lengthHex("premaster_kem_secret"); err != nil {
			return nil, err
		}
		client, err := rec.fixedHex("client_random", RandomLen)
		if err != nil {
			return nil, err
		}
		server, err := rec.fixedHex("server_random", RandomLen)
		if err != nil {
			return nil, err
		}
		copy(v.ClientRandom[:], client)
		copy(v.ServerRandom[:], server)
		if v.ClientKeyExchange, err = rec.lengthHex("client_key_exchange_message"); err != nil {
			return nil, err
		}
		if v.MasterSecret, err = rec.fixedHex("master_secret", MasterSecretLen); err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// WriteHybridPRFVector appends v to w in the format ReadHybridPRFVectors
// accepts.
func WriteHybridPRFVector(w io.Writer, v HybridPRFVector) error {
	enc := func(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) }
	_, err := fmt.Fprintf(w,
		"count = %d\n"+
			"premaster_classic_secret = %s\n"+
			"premaster_kem_secret_length = %d\n"+
			"premaster_kem_secret = %s\n"+
			"client_random = %s\n"+
			"server_random = %s\n"+
			"client_key_exchange_message_length = %d\n"+
			"client_key_exchange_message = %s\n"+
			"master_secret = %s\n\n",
		v.Count,
		enc(v.ClassicSecret),
		len(v.KEMSecret), enc(v.KEMSecret),
		enc(v.ClientRandom[:]),
		enc(v.ServerRandom[:]),
		len(v.ClientKeyExchange), enc(v.ClientKeyExchange),
		enc(v.MasterSecret))
	return err
}

// Derive combines the vector's premaster parts and derives its master
// secret. A vector without a KEM part takes the non-hybrid path. A vector
// that carries a ClientKeyExchange message uses the hybrid label and binds
// the message into the seed; otherwise the plain "master secret" label is
// used.
func (v HybridPRFVector) Derive(alg HashAlgorithm) (*MasterSecret, error) {
	classical, err := NewClassicalSecret(v.ClassicSecret)
	if err != nil {
		return nil, err
	}
	defer classical.Destroy()

	var kem *KEMSecret
	if len(v.KEMSecret) > 0 {
		if kem, err = NewKEMSecret(v.KEMSecret); err != nil {
			return nil, err
		}
		defer kem.Destroy()
	}

	pms, err := Combine(classical, kem)
	if err != nil {
		return nil, err
	}
	if len(v.ClientKeyExchange) > 0 {
		return DeriveHybridMasterSecret(pms, v.ClientRandom, v.ServerRandom, v.ClientKeyExchange, alg)
	}
	return DeriveMasterSecret(pms, v.ClientRandom, v.ServerRandom, alg)
}

// SignatureVector is one RSASSA-PSS SigVer record.
type SignatureVector struct {
	Count   int
	Comment string
	Hash    HashAlgorithm
	N, E, D []byte
	Msg     []byte
	Sig     []byte
	Pass    bool
}

// ReadSignatureVectors parses records of the form
//
//	count = 0
//	hash = SHA256
//	n = ..., e = ..., d = ..., msg = ..., sig = ...
//	result = P
//
// with one field per line. d may be empty for verification-only vectors.
func ReadSignatureVectors(r io.Reader) ([]SignatureVector, error) {
	records, err := readKATRecords(r)
	if err != nil {
		return nil, err
	}
	vectors := make([]SignatureVector, 0, len(records))
	for _, rec := range records {
		v := SignatureVector{Count: rec.count, Comment: rec.comment}
		h, ok := ParseHashAlgorithm(rec.fields["hash"])
		if !ok {
			return nil, fmt.Errorf("%w: count %d: unknown hash %q", ErrMalformedVector, rec.count, rec.fields["hash"])
		}
		v.Hash = h
		for key, dst := range map[string]*[]byte{"n": &v.N, "e": &v.E, "msg": &v.Msg, "sig": &v.Sig} {
			if *dst, err = rec.hex(key); err != nil {
				return nil, err
			}
		}
		if _, ok := rec.fields["d"]; ok {
			if v.D, err = rec.hex("d"); err != nil {
				return nil, err
			}
		}
		switch strings.ToUpper(rec.fields["result"]) {
		case "P":
			v.Pass = true
		case "F":
		default:
			return nil, fmt.Errorf("%w: count %d: bad result %q", ErrMalformedVector, rec.count, rec.fields["result"])
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// Digest hashes the vector's message with its hash algorithm.
func (v SignatureVector) Digest() (HashAccumulator, error) {
	d, err := NewDigest(v.Hash)
	if err != nil {
		return nil, err
	}
	d.Write(v.Msg)
	return d, nil
}

// KeyHandle builds a key handle of type typ from the vector's parameters.
func (v SignatureVector) KeyHandle(typ KeyType) (*KeyHandle, error) {
	return NewRSAKeyHandleFromParams(v.N, v.E, v.D, typ)
}
