package wire

import (
	"bytes"
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"senderkey/internal/domain"
)

const (
	fieldVersionCurrent protowire.Number = 1
	fieldVersionMax     protowire.Number = 2

	fieldVersion    protowire.Number = 1
	fieldID         protowire.Number = 2
	fieldIteration  protowire.Number = 3
	fieldChainKey   protowire.Number = 4
	fieldSigningKey protowire.Number = 5

	fieldCiphertext protowire.Number = 4
	fieldSignature  protowire.Number = 5
)

// ErrMalformed is returned for input that is not a well-formed message.
var ErrMalformed = errors.New("wire: malformed message")

// Codec implements domain.Codec.
type Codec struct{}

// New returns a Codec.
func New() Codec { return Codec{} }

// EncodeSenderKeyDistributionMessage encodes m.
func (Codec) EncodeSenderKeyDistributionMessage(m domain.SenderKeyDistributionMessage) ([]byte, error) {
	var b []byte
	b = appendVersion(b, m.Version)
	b = appendUint32(b, fieldID, m.ID)
	b = appendUint32(b, fieldIteration, m.Iteration)
	b = appendBytes(b, fieldChainKey, m.ChainKey)
	b = appendBytes(b, fieldSigningKey, m.SigningKey.Slice())
	return b, nil
}

// DecodeSenderKeyDistributionMessage decodes b.
func (Codec) DecodeSenderKeyDistributionMessage(b []byte) (domain.SenderKeyDistributionMessage, error) {
	var (
		m                 domain.SenderKeyDistributionMessage
		seenKey, seenSign bool
	)
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldVersion && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			version, err := decodeVersion(v)
			if err != nil {
				return 0, err
			}
			m.Version = version
			return n, nil
		case num == fieldID && typ == protowire.VarintType:
			return consumeUint32(b, &m.ID)
		case num == fieldIteration && typ == protowire.VarintType:
			return consumeUint32(b, &m.Iteration)
		case num == fieldChainKey && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.ChainKey = append([]byte(nil), v...)
			seenKey = true
			return n, nil
		case num == fieldSigningKey && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			if len(v) != len(m.SigningKey) {
				return 0, errors.Wrapf(ErrMalformed, "signing key is %d bytes", len(v))
			}
			copy(m.SigningKey[:], v)
			seenSign = true
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return domain.SenderKeyDistributionMessage{}, err
	}
	if !seenKey || len(m.ChainKey) == 0 {
		return domain.SenderKeyDistributionMessage{}, errors.Wrap(ErrMalformed, "missing chain key")
	}
	if !seenSign {
		return domain.SenderKeyDistributionMessage{}, errors.Wrap(ErrMalformed, "missing signing key")
	}
	return m, nil
}

// EncodeSenderKeyMessageSignatureInput encodes the signed part of a message.
func (Codec) EncodeSenderKeyMessageSignatureInput(
	version domain.ProtocolVersion,
	message domain.SenderKeyMessageBody,
) ([]byte, error) {
	return appendBody(nil, version, message), nil
}

// EncodeSenderKeyMessage encodes m including its signature.
func (Codec) EncodeSenderKeyMessage(m domain.SenderKeyMessage) ([]byte, error) {
	b := appendBody(nil, m.Version, m.Message)
	b = appendBytes(b, fieldSignature, m.Signature)
	return b, nil
}

// DecodeSenderKeyMessage decodes b.
func (Codec) DecodeSenderKeyMessage(b []byte) (domain.SenderKeyMessage, error) {
	var (
		m       domain.SenderKeyMessage
		seenSig bool
	)
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldVersion && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			version, err := decodeVersion(v)
			if err != nil {
				return 0, err
			}
			m.Version = version
			return n, nil
		case num == fieldID && typ == protowire.VarintType:
			return consumeUint32(b, &m.Message.ID)
		case num == fieldIteration && typ == protowire.VarintType:
			return consumeUint32(b, &m.Message.Iteration)
		case num == fieldCiphertext && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.Message.Ciphertext = append([]byte(nil), v...)
			return n, nil
		case num == fieldSignature && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.Signature = append([]byte(nil), v...)
			seenSig = true
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return domain.SenderKeyMessage{}, err
	}
	if !seenSig {
		return domain.SenderKeyMessage{}, errors.Wrap(ErrMalformed, "missing signature")
	}
	// The signature is checked over a re-encoding of m, so only the one
	// encoding that re-encoding produces is accepted.
	if canonical := appendBytes(appendBody(nil, m.Version, m.Message), fieldSignature, m.Signature); !bytes.Equal(canonical, b) {
		return domain.SenderKeyMessage{}, errors.Wrap(ErrMalformed, "non-canonical encoding")
	}
	return m, nil
}

// walk iterates over the fields of b, handing each value to fn. fn returns
// the number of bytes it consumed, or a negative protowire error code.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	if len(b) == 0 {
		return errors.Wrap(ErrMalformed, "empty input")
	}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		b = b[n:]
		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		b = b[n:]
	}
	return nil
}

func decodeVersion(b []byte) (domain.ProtocolVersion, error) {
	var v domain.ProtocolVersion
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return v, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		b = b[n:]
		var err error
		switch {
		case num == fieldVersionCurrent && typ == protowire.VarintType:
			n, err = consumeUint32(b, &v.Current)
		case num == fieldVersionMax && typ == protowire.VarintType:
			n, err = consumeUint32(b, &v.Max)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if err != nil {
			return v, err
		}
		if n < 0 {
			return v, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		b = b[n:]
	}
	return v, nil
}

func consumeUint32(b []byte, out *uint32) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n, nil
	}
	if v > math.MaxUint32 {
		return 0, errors.Wrapf(ErrMalformed, "value %d overflows uint32", v)
	}
	*out = uint32(v)
	return n, nil
}

func appendBody(b []byte, version domain.ProtocolVersion, m domain.SenderKeyMessageBody) []byte {
	b = appendVersion(b, version)
	b = appendUint32(b, fieldID, m.ID)
	b = appendUint32(b, fieldIteration, m.Iteration)
	b = appendBytes(b, fieldCiphertext, m.Ciphertext)
	return b
}

func appendVersion(b []byte, v domain.ProtocolVersion) []byte {
	var vb []byte
	vb = appendUint32(vb, fieldVersionCurrent, v.Current)
	vb = appendUint32(vb, fieldVersionMax, v.Max)
	return appendBytes(b, fieldVersion, vb)
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// Compile-time assertion that Codec implements domain.Codec.
var _ domain.Codec = Codec{}
