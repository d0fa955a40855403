package interfaces

import (
	"context"

	domaintypes "senderkey/internal/domain/types"
)

// IdentityStore persists your long-term identity keys.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
}

// PreKeyStore manages signed and one-time pre-keys on disk.
type PreKeyStore interface {
	SavePreKeys(keys []domaintypes.PreKey) error
	ConsumePreKey(id domaintypes.PreKeyID) (domaintypes.PreKey, bool, error)
	ListPreKeyIDs() ([]domaintypes.PreKeyID, error)

	SaveSignedPreKey(key domaintypes.SignedPreKey) error
	LoadSignedPreKey(id domaintypes.PreKeyID) (domaintypes.SignedPreKey, bool, error)
}

// GroupSessionStore keeps the sender-key session of every (group, sender)
// pair. The caller is expected to store the session returned by a successful
// operation in place of the one it loaded.
type GroupSessionStore interface {
	SaveGroupSession(
		ctx context.Context,
		group domaintypes.GroupID,
		sender domaintypes.SenderID,
		session domaintypes.GroupSession,
	) error
	LoadGroupSession(
		ctx context.Context,
		group domaintypes.GroupID,
		sender domaintypes.SenderID,
	) (domaintypes.GroupSession, bool, error)
	DeleteGroupSession(
		ctx context.Context,
		group domaintypes.GroupID,
		sender domaintypes.SenderID,
	) error
}
