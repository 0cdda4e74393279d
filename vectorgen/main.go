// Command vectorgen writes hybrid PRF known-answer vectors. Each vector is a
// full hybrid key exchange: the client encapsulates against a fresh server key
// share, the server decapsulates, both sides must agree, and the master
// secret is derived from the combined premaster secret.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-i2p/tlscore"
	"github.com/go-i2p/tlscore/logging"
)

const defaultSeed = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func main() {
	var (
		count   = flag.Int("n", 10, "number of vectors")
		kemName = flag.String("kem", "MLKEM1024", "KEM parameter set")
		hashStr = flag.String("hash", "SHA384", "PRF hash")
		seed    = flag.String("seed", defaultSeed, "hex seed for the deterministic random stream")
		out     = flag.String("o", "", "output file (default stdout)")
		level   = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logging.NewText(os.Stderr, *level)
	if err := run(*count, *kemName, *hashStr, *seed, *out, log); err != nil {
		log.Error(context.Background(), "vector generation failed", "error", err)
		os.Exit(1)
	}
}

func run(count int, kemName, hashName, seed, out string, log logging.Logger) error {
	kem, ok := tlscore.LookupKEM(kemName)
	if !ok {
		return fmt.Errorf("unknown KEM %q", kemName)
	}
	alg, ok := tlscore.ParseHashAlgorithm(hashName)
	if !ok {
		return fmt.Errorf("unknown hash %q", hashName)
	}
	group := tlscore.HybridKeyExchange{Classical: tlscore.DHP384, KEM: kem}

	if out == "" {
		return write(os.Stdout, count, group, alg, seed, log)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := write(f, count, group, alg, seed, log); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func write(w io.Writer, count int, group tlscore.HybridKeyExchange, alg tlscore.HashAlgorithm, seed string, log logging.Logger) error {
	if _, err := fmt.Fprintf(w, "# Hybrid PRF known-answer vectors\n# group = %s, prf = %s, seed = %s\n\n", group.Name(), alg, seed); err != nil {
		return err
	}
	rng := drbg(seed)
	for i := 0; i < count; i++ {
		v, err := generate(group, alg, rng)
		if err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}
		v.Count = i
		if err := tlscore.WriteHybridPRFVector(w, v); err != nil {
			return err
		}
	}
	log.Info(context.Background(), "wrote hybrid PRF vectors", "count", count, "group", group.Name(), "prf", alg.String())
	return nil
}

func generate(group tlscore.HybridKeyExchange, alg tlscore.HashAlgorithm, rng io.Reader) (tlscore.HybridPRFVector, error) {
	var v tlscore.HybridPRFVector

	share, err := group.GenerateServerKeyShare(rng)
	if err != nil {
		return v, err
	}
	defer share.Destroy()

	classical, kem, cke, err := group.Encapsulate(rng, share.DH.Public, share.KEM.Public)
	if err != nil {
		return v, err
	}
	defer classical.Destroy()
	defer kem.Destroy()

	srvClassical, srvKEM, err := group.Decapsulate(share, cke)
	if err != nil {
		return v, err
	}
	defer srvClassical.Destroy()
	defer srvKEM.Destroy()
	if !bytes.Equal(classical.Bytes(), srvClassical.Bytes()) || !bytes.Equal(kem.Bytes(), srvKEM.Bytes()) {
		return v, fmt.Errorf("client and server premaster secrets differ")
	}

	if _, err := io.ReadFull(rng, v.ClientRandom[:]); err != nil {
		return v, err
	}
	if _, err := io.ReadFull(rng, v.ServerRandom[:]); err != nil {
		return v, err
	}

	v.ClassicSecret = bytes.Clone(classical.Bytes())
	v.KEMSecret = bytes.Clone(kem.Bytes())
	v.ClientKeyExchange = cke

	pms, err := tlscore.Combine(classical, kem)
	if err != nil {
		return v, err
	}
	ms, err := tlscore.DeriveHybridMasterSecret(pms, v.ClientRandom, v.ServerRandom, cke, alg)
	if err != nil {
		return v, err
	}
	defer ms.Destroy()
	v.MasterSecret = bytes.Clone(ms.Bytes())
	return v, nil
}
