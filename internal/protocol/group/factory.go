package group

import (
	"math"

	"github.com/pkg/errors"

	"senderkey/internal/domain"
)

// SessionFactory creates epochs and handles the distribution handshake.
type SessionFactory struct {
	crypto domain.Crypto
	codec  domain.Codec
	policy Policy
}

// NewSessionFactory returns a SessionFactory. Zero fields of policy take
// their defaults.
func NewSessionFactory(c domain.Crypto, codec domain.Codec, policy Policy) *SessionFactory {
	return &SessionFactory{crypto: c, codec: codec, policy: policy.withDefaults()}
}

// CreateState generates a fresh epoch: a random id in [1, 2^31-1], a random
// chain seed at index 0 and a new signature key pair.
func (f *SessionFactory) CreateState() (domain.SenderKeyState, error) {
	id, err := f.crypto.RandomInt(maxSenderKeyID)
	if err != nil {
		return domain.SenderKeyState{}, err
	}
	seed, err := f.crypto.RandomBytes(chainKeySize)
	if err != nil {
		return domain.SenderKeyState{}, err
	}
	signatureKey, err := f.crypto.GenerateKeyPair()
	if err != nil {
		return domain.SenderKeyState{}, err
	}
	return domain.SenderKeyState{
		ID:           id + 1,
		Chain:        domain.NewChain(seed, 0),
		SignatureKey: signatureKey,
	}, nil
}

// CreateDistributionMessage encodes the public view of state: its id, the
// current chain position and key, and the public signature key.
func (f *SessionFactory) CreateDistributionMessage(state domain.SenderKeyState) ([]byte, error) {
	return f.codec.EncodeSenderKeyDistributionMessage(domain.SenderKeyDistributionMessage{
		Version:    currentVersion(),
		ID:         state.ID,
		Iteration:  state.Chain.Index,
		ChainKey:   state.Chain.Key,
		SigningKey: state.SignatureKey.Public,
	})
}

// ProcessDistributionMessage decodes message and returns a copy of session
// with the announced epoch added at the head. session is left untouched.
func (f *SessionFactory) ProcessDistributionMessage(
	session domain.GroupSession,
	message []byte,
) (domain.GroupSession, error) {
	m, err := f.codec.DecodeSenderKeyDistributionMessage(message)
	if err != nil {
		return domain.GroupSession{}, errors.Wrap(ErrInvalidMessage, err.Error())
	}
	return f.ProcessDistribution(session, m)
}

// ProcessDistribution is ProcessDistributionMessage for an already decoded
// message.
func (f *SessionFactory) ProcessDistribution(
	session domain.GroupSession,
	m domain.SenderKeyDistributionMessage,
) (domain.GroupSession, error) {
	if m.Version.Current != CurrentVersion {
		return domain.GroupSession{}, unsupportedVersion(m.Version.Current)
	}
	if len(m.ChainKey) == 0 {
		return domain.GroupSession{}, errors.Wrap(ErrInvalidMessage, "empty chain key")
	}
	if m.Iteration == math.MaxUint32 {
		return domain.GroupSession{}, errors.Wrap(ErrInvalidMessage, "chain already exhausted")
	}
	next := domain.NewGroupSession(&session)
	next.AddState(domain.SenderKeyState{
		ID:           m.ID,
		Chain:        domain.NewChain(m.ChainKey, m.Iteration),
		SignatureKey: domain.KeyPair{Public: m.SigningKey},
	}, f.policy.MaxSessionStates)
	return next, nil
}

// Policy returns the limits the factory applies.
func (f *SessionFactory) Policy() Policy { return f.policy }
