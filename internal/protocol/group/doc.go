// Package group implements sender-key group messaging on top of the hash
// ratchet.
//
// # Overview
//
// Each sender owns an epoch (a SenderKeyState): an id, a hash-ratchet chain
// and a signature key pair. The SessionFactory creates epochs and turns them
// into distribution messages; receivers feed those into their GroupSession
// for that (group, sender) pair. The Cipher encrypts with an epoch and
// decrypts against a session.
//
// # Values in, values out
//
// No operation mutates its input. Encrypt returns the advanced state and
// Decrypt returns the updated session; callers persist those in place of what
// they passed in, and on error simply keep the old value.
//
// # Errors
//
// ErrUnsupportedProtocolVersion is returned for any version other than
// CurrentVersion. ErrDuplicateMessage means an iteration was already consumed
// (or fell out of the cached window). ErrInvalidMessage covers everything else
// a peer can send: bad signatures, too many skipped messages, malformed input
// and ciphertexts no candidate state could open. Failures of the underlying
// primitives are returned unchanged.
//
// # Concurrency
//
// Two concurrent Encrypt calls on the same persisted state would reuse an
// iteration. Callers serialise operations per (group, sender); see
// internal/services/group.
package group
