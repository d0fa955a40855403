package interfaces

import (
	"context"

	domaintypes "senderkey/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects your identity keys.
type IdentityService interface {
	GenerateIdentity(passphrase string, extendedRange bool) (
		domaintypes.Identity,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
	FingerprintIdentity(passphrase string) (domaintypes.Fingerprint, error)
	GenerateAndStorePreKeys(passphrase string, start domaintypes.PreKeyID, count int) (
		domaintypes.SignedPreKey,
		[]domaintypes.PreKey,
		error,
	)
}

// GroupService runs the sender-key protocol against persisted sessions.
type GroupService interface {
	CreateSenderKey(
		ctx context.Context,
		group domaintypes.GroupID,
		me domaintypes.SenderID,
	) ([]byte, error)
	DistributionMessage(
		ctx context.Context,
		group domaintypes.GroupID,
		me domaintypes.SenderID,
	) ([]byte, error)
	ProcessDistributionMessage(
		ctx context.Context,
		group domaintypes.GroupID,
		sender domaintypes.SenderID,
		message []byte,
	) error
	Encrypt(
		ctx context.Context,
		group domaintypes.GroupID,
		me domaintypes.SenderID,
		plaintext []byte,
	) ([]byte, error)
	Decrypt(
		ctx context.Context,
		group domaintypes.GroupID,
		sender domaintypes.SenderID,
		message []byte,
	) ([]byte, error)
}
