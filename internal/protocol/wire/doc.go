// Package wire encodes the sender-key wire structures in protobuf wire
// format.
//
// Field layout
//
//	ProtocolVersion               1 current (varint), 2 max (varint)
//	SenderKeyDistributionMessage  1 version, 2 id, 3 iteration, 4 chain key, 5 signing key
//	SenderKeyMessage              1 version, 2 id, 3 iteration, 4 ciphertext, 5 signature
//
// Encoding always emits fields in ascending order, so the signature input
// (a SenderKeyMessage without field 5) is canonical. DecodeSenderKeyMessage
// accepts only that canonical form: unknown, repeated or reordered fields and
// overlong varints are rejected with ErrMalformed. The distribution decoder
// skips unknown fields. Both reject truncated input.
package wire
