// Package ratchet implements the sender-key hash ratchet.
//
// A chain key is advanced with HMAC(key, 0x02); message keys for the current
// iteration come from HMAC(key, 0x01) expanded with HKDF into an IV and a
// cipher key. Deriving and advancing are separate steps so callers derive the
// keys they need before advancing; once advanced, earlier keys cannot be
// recomputed from the chain.
//
// Concurrency: chains are plain values. Callers must not share a chain's
// skipped-key map between goroutines.
package ratchet
