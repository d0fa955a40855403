package domain

import (
	interfaces "senderkey/internal/domain/interfaces"
	types "senderkey/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	GroupID                      = types.GroupID
	SenderID                     = types.SenderID
	Fingerprint                  = types.Fingerprint
	RegistrationID               = types.RegistrationID
	PreKeyID                     = types.PreKeyID
	Ed25519Public                = types.Ed25519Public
	Ed25519Private               = types.Ed25519Private
	KeyPair                      = types.KeyPair
	Identity                     = types.Identity
	PreKey                       = types.PreKey
	SignedPreKey                 = types.SignedPreKey
	MessageKeys                  = types.MessageKeys
	Chain                        = types.Chain
	SenderKeyState               = types.SenderKeyState
	GroupSession                 = types.GroupSession
	ProtocolVersion              = types.ProtocolVersion
	SenderKeyDistributionMessage = types.SenderKeyDistributionMessage
	SenderKeyMessageBody         = types.SenderKeyMessageBody
	SenderKeyMessage             = types.SenderKeyMessage
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Crypto            = interfaces.Crypto
	Codec             = interfaces.Codec
	IdentityStore     = interfaces.IdentityStore
	PreKeyStore       = interfaces.PreKeyStore
	GroupSessionStore = interfaces.GroupSessionStore
	IdentityService   = interfaces.IdentityService
	GroupService      = interfaces.GroupService
)

// NewChain and NewGroupSession are re-exported constructors.
var (
	NewChain        = types.NewChain
	NewGroupSession = types.NewGroupSession
)
