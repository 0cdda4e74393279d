package tlscore

// A DHKey is a keypair used for Diffie-Hellman key agreement.
type DHKey struct {
	Private []byte
	Public  []byte
}

// A KEMKey is a keypair for a key encapsulation mechanism.
type KEMKey struct {
	Private []byte
	Public  []byte
}

// Destroy wipes the private half.
func (k *DHKey) Destroy() {
	secureZero(k.Private)
	k.Private = nil
}

// Destroy wipes the private half.
func (k *KEMKey) Destroy() {
	secureZero(k.Private)
	k.Private = nil
}
