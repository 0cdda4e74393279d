package tlscore

import (
	"io"
)

// A DHFunc implements the (EC)DHE half of a key exchange. Its shared secret
// becomes the classical premaster secret part.
type DHFunc interface {
	// GenerateKeypair generates a new ephemeral keypair using random as a
	// source of entropy.
	GenerateKeypair(random io.Reader) (DHKey, error)

	// DH performs a Diffie-Hellman calculation between the provided private and
	// public keys and returns the result.
	DH(privkey, pubkey []byte) ([]byte, error)

	// DHLen is the number of bytes returned by DH.
	DHLen() int

	// PublicKeyLen is the length of an encoded public key.
	PublicKeyLen() int

	// DHName is the name of the DH function.
	DHName() string
}

// KEMFunc implements a Key Encapsulation Mechanism. Its shared secret
// becomes the KEM premaster secret part of a hybrid key exchange.
// The server publishes a public key, the client encapsulates against it and
// sends the ciphertext, and the server decapsulates.
type KEMFunc interface {
	// GenerateKeypair generates a new KEM keypair using random as a source of entropy.
	GenerateKeypair(random io.Reader) (KEMKey, error)

	// Encapsulate generates a shared secret and encapsulates it for the given public key.
	// Returns the ciphertext and the shared secret.
	Encapsulate(pubkey []byte, random io.Reader) (ciphertext, sharedSecret []byte, err error)

	// Decapsulate recovers the shared secret from the ciphertext using the private key.
	Decapsulate(privkey, ciphertext []byte) (sharedSecret []byte, err error)

	// PublicKeyLen returns the length in bytes of KEM public keys.
	PublicKeyLen() int

	// PrivateKeyLen returns the length in bytes of KEM private keys.
	PrivateKeyLen() int

	// CiphertextLen returns the length in bytes of KEM ciphertexts.
	CiphertextLen() int

	// SharedSecretLen returns the length in bytes of KEM shared secrets.
	SharedSecretLen() int

	// KEMName returns the name of the KEM algorithm (e.g., "MLKEM768").
	KEMName() string
}
