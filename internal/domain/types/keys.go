package types

// Ed25519Public is an Ed25519 signing public key.
type Ed25519Public [32]byte

// Slice returns the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }

// Ed25519Private is an Ed25519 signing private key (ed25519.PrivateKey layout).
type Ed25519Private [64]byte

// Slice returns the key as a []byte.
func (k Ed25519Private) Slice() []byte { return k[:] }

// KeyPair is a signature key pair. Receivers only ever hold the public half,
// in which case Private is nil.
type KeyPair struct {
	Public  Ed25519Public   `json:"public"`
	Private *Ed25519Private `json:"private,omitempty"`
}

// HasPrivate reports whether the private half is present.
func (kp KeyPair) HasPrivate() bool { return kp.Private != nil }

// PublicOnly returns a copy of kp without the private half.
func (kp KeyPair) PublicOnly() KeyPair { return KeyPair{Public: kp.Public} }

// Clone returns a copy that shares no memory with kp.
func (kp KeyPair) Clone() KeyPair {
	out := KeyPair{Public: kp.Public}
	if kp.Private != nil {
		priv := *kp.Private
		out.Private = &priv
	}
	return out
}
