package types

// ProtocolVersion is the version pair carried by every wire structure.
type ProtocolVersion struct {
	Current uint32 `json:"current"`
	Max     uint32 `json:"max"`
}

// SenderKeyDistributionMessage announces a new epoch to group members.
type SenderKeyDistributionMessage struct {
	Version    ProtocolVersion `json:"version"`
	ID         uint32          `json:"id"`
	Iteration  uint32          `json:"iteration"`
	ChainKey   []byte          `json:"chain_key"`
	SigningKey Ed25519Public   `json:"signing_key"`
}

// SenderKeyMessageBody is the signed part of a group message.
type SenderKeyMessageBody struct {
	ID         uint32 `json:"id"`
	Iteration  uint32 `json:"iteration"`
	Ciphertext []byte `json:"ciphertext"`
}

// SenderKeyMessage is an encrypted group message as sent on the wire.
// Signature covers the canonical encoding of {Version, Message}.
type SenderKeyMessage struct {
	Version   ProtocolVersion      `json:"version"`
	Message   SenderKeyMessageBody `json:"message"`
	Signature []byte               `json:"signature"`
}
