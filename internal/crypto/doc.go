// Package crypto provides the primitive capability the sender-key protocol
// is built on.
//
// Contents
//
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - Default, an implementation of domain.Crypto using HMAC-SHA256,
//     HKDF-SHA256 and ChaCha20-Poly1305
//   - Short public-key fingerprints for display and sender ids (Fingerprint)
//   - Base64 helpers for the CLI (B64, FromB64)
//
// # Notes
//
// Key types are the fixed-size arrays defined in internal/domain. Callers
// should treat returned secrets as sensitive and wipe them with
// internal/util/memzero once consumed.
package crypto
