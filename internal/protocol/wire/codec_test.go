package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"senderkey/internal/domain"
	"senderkey/internal/protocol/wire"
)

func TestDistributionMessage_EncodeDecode(t *testing.T) {
	codec := wire.New()
	in := domain.SenderKeyDistributionMessage{
		Version:    domain.ProtocolVersion{Current: 3, Max: 3},
		ID:         1234567,
		Iteration:  42,
		ChainKey:   bytes.Repeat([]byte{0xaa}, 32),
		SigningKey: domain.Ed25519Public{1, 2, 3},
	}

	b, err := codec.EncodeSenderKeyDistributionMessage(in)
	require.NoError(t, err)

	out, err := codec.DecodeSenderKeyDistributionMessage(b)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDistributionMessage_MissingChainKey(t *testing.T) {
	codec := wire.New()
	var b []byte
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 9)

	_, err := codec.DecodeSenderKeyDistributionMessage(b)
	require.ErrorIs(t, err, wire.ErrMalformed)
}

func TestDistributionMessage_BadSigningKeyLength(t *testing.T) {
	codec := wire.New()
	b, err := codec.EncodeSenderKeyDistributionMessage(domain.SenderKeyDistributionMessage{
		Version:  domain.ProtocolVersion{Current: 3, Max: 3},
		ChainKey: []byte{1},
	})
	require.NoError(t, err)
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{1, 2, 3})

	_, err = codec.DecodeSenderKeyDistributionMessage(b)
	require.ErrorIs(t, err, wire.ErrMalformed)
}

func TestSenderKeyMessage_SignatureInputIsPrefix(t *testing.T) {
	codec := wire.New()
	m := domain.SenderKeyMessage{
		Version:   domain.ProtocolVersion{Current: 3, Max: 3},
		Message:   domain.SenderKeyMessageBody{ID: 7, Iteration: 0, Ciphertext: []byte("ct")},
		Signature: bytes.Repeat([]byte{0x55}, 64),
	}

	input, err := codec.EncodeSenderKeyMessageSignatureInput(m.Version, m.Message)
	require.NoError(t, err)
	full, err := codec.EncodeSenderKeyMessage(m)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(full, input))

	out, err := codec.DecodeSenderKeyMessage(full)
	require.NoError(t, err)
	require.Equal(t, m, out)
}

func TestSenderKeyMessage_RejectsNonCanonical(t *testing.T) {
	codec := wire.New()
	m := domain.SenderKeyMessage{
		Version:   domain.ProtocolVersion{Current: 3, Max: 3},
		Message:   domain.SenderKeyMessageBody{ID: 1, Iteration: 2, Ciphertext: []byte{9}},
		Signature: []byte{1},
	}
	full, err := codec.EncodeSenderKeyMessage(m)
	require.NoError(t, err)

	version := protowire.AppendVarint(protowire.AppendTag(nil, 1, protowire.VarintType), 3)
	version = protowire.AppendVarint(protowire.AppendTag(version, 2, protowire.VarintType), 3)
	body := func(id []byte) []byte {
		b := protowire.AppendBytes(protowire.AppendTag(nil, 1, protowire.BytesType), version)
		b = append(protowire.AppendTag(b, 2, protowire.VarintType), id...)
		b = protowire.AppendVarint(protowire.AppendTag(b, 3, protowire.VarintType), 2)
		return protowire.AppendBytes(protowire.AppendTag(b, 4, protowire.BytesType), []byte{9})
	}
	signed := func(b []byte) []byte {
		return protowire.AppendBytes(protowire.AppendTag(b, 5, protowire.BytesType), []byte{1})
	}

	// The hand-built encoding matches the codec's, so only the deviation
	// under test differs.
	require.Equal(t, full, signed(body([]byte{0x01})))

	unknown := protowire.AppendTag(append([]byte(nil), full...), 99, protowire.BytesType)
	unknown = protowire.AppendBytes(unknown, []byte("ignored"))
	repeated := protowire.AppendVarint(protowire.AppendTag(append([]byte(nil), full...), 3, protowire.VarintType), 2)
	reordered := signed(nil)
	reordered = append(reordered, body([]byte{0x01})...)

	cases := map[string][]byte{
		"unknown field":   unknown,
		"overlong varint": signed(body([]byte{0x81, 0x00})),
		"repeated field":  repeated,
		"reordered":       reordered,
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.DecodeSenderKeyMessage(b)
			require.ErrorIs(t, err, wire.ErrMalformed)
		})
	}
}

func TestDistributionMessage_SkipsUnknownFields(t *testing.T) {
	codec := wire.New()
	m := domain.SenderKeyDistributionMessage{
		Version:  domain.ProtocolVersion{Current: 3, Max: 3},
		ID:       1,
		ChainKey: []byte{2},
	}
	b, err := codec.EncodeSenderKeyDistributionMessage(m)
	require.NoError(t, err)
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("ignored"))

	out, err := codec.DecodeSenderKeyDistributionMessage(b)
	require.NoError(t, err)
	require.Equal(t, m, out)
}

func TestSenderKeyMessage_Malformed(t *testing.T) {
	codec := wire.New()
	cases := map[string][]byte{
		"empty":     nil,
		"truncated": {0x0a, 0x10, 0x01},
		"no sig":    protowire.AppendVarint(protowire.AppendTag(nil, 2, protowire.VarintType), 1),
		"overflow": protowire.AppendVarint(
			protowire.AppendTag(nil, 3, protowire.VarintType), 1<<40),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.DecodeSenderKeyMessage(b)
			require.ErrorIs(t, err, wire.ErrMalformed)
		})
	}
}
