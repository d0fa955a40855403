package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"senderkey/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}

// SenderIDFor derives the sender id a peer is known by from its identity key.
func SenderIDFor(pub domain.Ed25519Public) domain.SenderID {
	return domain.SenderID(Fingerprint(pub.Slice()))
}
