package main

import (
	"bytes"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/sha3"
)

// hexReader creates an io.Reader from a hex-encoded string
func hexReader(s string) io.Reader {
	res, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return bytes.NewBuffer(res)
}

// drbg returns an endless deterministic byte stream keyed by the hex seed.
// Every vector in a file is drawn from the same stream, so a given seed always
// reproduces the same file.
func drbg(seed string) io.Reader {
	shake := sha3.NewShake256()
	if _, err := io.Copy(shake, hexReader(seed)); err != nil {
		panic(err)
	}
	return shake
}
