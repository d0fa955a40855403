package interfaces

import domaintypes "senderkey/internal/domain/types"

// Codec encodes and decodes the versioned wire structures.
type Codec interface {
	EncodeSenderKeyDistributionMessage(m domaintypes.SenderKeyDistributionMessage) ([]byte, error)
	DecodeSenderKeyDistributionMessage(b []byte) (domaintypes.SenderKeyDistributionMessage, error)

	// EncodeSenderKeyMessageSignatureInput returns the canonical bytes a
	// sender signs: the version and message body, without the signature.
	EncodeSenderKeyMessageSignatureInput(
		version domaintypes.ProtocolVersion,
		message domaintypes.SenderKeyMessageBody,
	) ([]byte, error)
	EncodeSenderKeyMessage(m domaintypes.SenderKeyMessage) ([]byte, error)
	DecodeSenderKeyMessage(b []byte) (domaintypes.SenderKeyMessage, error)
}
