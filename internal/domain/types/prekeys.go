package types

// PreKey is a one-time pre-key record.
type PreKey struct {
	ID      PreKeyID `json:"id"`
	KeyPair KeyPair  `json:"key_pair"`
}

// SignedPreKey is a pre-key whose public half is signed by the identity key.
type SignedPreKey struct {
	ID        PreKeyID `json:"id"`
	KeyPair   KeyPair  `json:"key_pair"`
	Signature []byte   `json:"signature"`
}
