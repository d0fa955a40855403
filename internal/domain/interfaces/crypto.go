package interfaces

import domaintypes "senderkey/internal/domain/types"

// Crypto is the primitive capability the protocol is built on. Every method
// may fail; such failures are treated as fatal by callers and never retried.
type Crypto interface {
	// GenerateKeyPair returns a fresh signature key pair.
	GenerateKeyPair() (domaintypes.KeyPair, error)
	// RandomBytes returns n bytes from a cryptographically secure source.
	RandomBytes(n int) ([]byte, error)
	// RandomInt returns a uniformly distributed value in [0, maxExclusive).
	RandomInt(maxExclusive uint32) (uint32, error)

	// HMAC computes a keyed hash of data.
	HMAC(key, data []byte) ([]byte, error)
	// DeriveSecrets expands input into n bytes bound to the info label.
	DeriveSecrets(input, info []byte, n int) ([]byte, error)

	// Encrypt and Decrypt use fixed key and iv sizes.
	Encrypt(key, plaintext, iv []byte) ([]byte, error)
	Decrypt(key, ciphertext, iv []byte) ([]byte, error)

	Sign(priv domaintypes.Ed25519Private, data []byte) ([]byte, error)
	VerifySignature(pub domaintypes.Ed25519Public, data, signature []byte) (bool, error)
}
