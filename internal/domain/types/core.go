package types

// GroupID identifies a group conversation.
type GroupID string

// String returns the string form of the group identifier.
func (id GroupID) String() string { return string(id) }

// SenderID identifies a sender within a group (typically an identity fingerprint).
type SenderID string

// String returns the string form of the sender identifier.
func (id SenderID) String() string { return string(id) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// RegistrationID is the install-time registration identifier.
type RegistrationID uint32

// PreKeyID identifies a pre-key. Ids wrap within 24 bits.
type PreKeyID uint32
