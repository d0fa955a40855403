package group

import (
	"math"

	"github.com/pkg/errors"

	"senderkey/internal/domain"
	"senderkey/internal/protocol/ratchet"
)

// Cipher encrypts and decrypts group messages.
type Cipher struct {
	crypto domain.Crypto
	codec  domain.Codec
	policy Policy
}

// NewCipher returns a Cipher. Zero fields of policy take their defaults.
func NewCipher(c domain.Crypto, codec domain.Codec, policy Policy) *Cipher {
	return &Cipher{crypto: c, codec: codec, policy: policy.withDefaults()}
}

// Encrypt encrypts plaintext with the current iteration of state and returns
// the wire message together with the advanced state, which the caller stores
// in place of state.
func (c *Cipher) Encrypt(state domain.SenderKeyState, plaintext []byte) ([]byte, domain.SenderKeyState, error) {
	next := state.Clone()
	if !next.SignatureKey.HasPrivate() {
		return nil, domain.SenderKeyState{}, errors.Wrapf(ErrInvalidKey, "no signing key for sender key %d", next.ID)
	}
	if next.Chain.Index == math.MaxUint32 {
		return nil, domain.SenderKeyState{}, errors.Wrapf(ratchet.ErrChainExhausted, "sender key %d", next.ID)
	}

	keys, err := ratchet.DeriveMessageKeys(c.crypto, next.Chain.Key, next.Chain.Index)
	if err != nil {
		return nil, domain.SenderKeyState{}, err
	}
	ciphertext, err := c.crypto.Encrypt(keys.CipherKey, plaintext, keys.IV)
	keys.Wipe()
	if err != nil {
		return nil, domain.SenderKeyState{}, err
	}

	version := currentVersion()
	body := domain.SenderKeyMessageBody{
		ID:         next.ID,
		Iteration:  next.Chain.Index,
		Ciphertext: ciphertext,
	}
	input, err := c.codec.EncodeSenderKeyMessageSignatureInput(version, body)
	if err != nil {
		return nil, domain.SenderKeyState{}, err
	}
	signature, err := c.crypto.Sign(*next.SignatureKey.Private, input)
	if err != nil {
		return nil, domain.SenderKeyState{}, err
	}

	// Advance before anything leaves so this iteration's key cannot be
	// derived from the stored chain again.
	next.Chain, err = ratchet.Advance(c.crypto, next.Chain)
	if err != nil {
		return nil, domain.SenderKeyState{}, err
	}

	out, err := c.codec.EncodeSenderKeyMessage(domain.SenderKeyMessage{
		Version:   version,
		Message:   body,
		Signature: signature,
	})
	if err != nil {
		return nil, domain.SenderKeyState{}, err
	}
	return out, next, nil
}

// Decrypt decrypts message against session and returns the plaintext with the
// updated session, which the caller stores in place of session.
//
// Every state whose id matches is tried, most recently used first. The first
// one that verifies and decrypts is moved to the head of the returned
// session.
func (c *Cipher) Decrypt(session domain.GroupSession, message []byte) ([]byte, domain.GroupSession, error) {
	m, err := c.codec.DecodeSenderKeyMessage(message)
	if err != nil {
		return nil, domain.GroupSession{}, errors.Wrap(ErrInvalidMessage, err.Error())
	}
	if m.Version.Current != CurrentVersion {
		return nil, domain.GroupSession{}, unsupportedVersion(m.Version.Current)
	}
	input, err := c.codec.EncodeSenderKeyMessageSignatureInput(m.Version, m.Message)
	if err != nil {
		return nil, domain.GroupSession{}, err
	}

	next := domain.NewGroupSession(&session)
	var causes []error
	for i, state := range next.States {
		if state.ID != m.Message.ID {
			continue
		}
		candidate := state.Clone()

		valid, err := c.crypto.VerifySignature(candidate.SignatureKey.Public, input, m.Signature)
		if err != nil {
			return nil, domain.GroupSession{}, err
		}
		if !valid {
			causes = append(causes, errors.Wrapf(ErrInvalidMessage, "bad signature for sender key %d", state.ID))
			continue
		}

		keys, chain, err := c.getOrCreateMessageKeys(candidate.Chain, m.Message.Iteration)
		if errors.Is(err, ErrDuplicateMessage) || errors.Is(err, ErrInvalidMessage) {
			causes = append(causes, err)
			continue
		}
		if err != nil {
			return nil, domain.GroupSession{}, err
		}
		candidate.Chain = chain

		plaintext, err := c.crypto.Decrypt(keys.CipherKey, m.Message.Ciphertext, keys.IV)
		keys.Wipe()
		if err != nil {
			causes = append(causes, errors.Wrapf(ErrInvalidMessage, "decrypt iteration %d: %v", m.Message.Iteration, err))
			continue
		}

		next.RemoveState(i)
		next.AddState(candidate, c.policy.MaxSessionStates)
		return plaintext, next, nil
	}

	if len(causes) == 0 {
		return nil, domain.GroupSession{}, errors.Wrapf(ErrInvalidMessage, "no sender key state for id %d", m.Message.ID)
	}
	return nil, domain.GroupSession{}, newDecryptError(causes)
}

// getOrCreateMessageKeys returns the keys for counter and the chain as it
// must be stored afterwards. chain must be owned by the caller: its skipped
// key cache is modified in place. Rejections wrap ErrDuplicateMessage or
// ErrInvalidMessage; any other error comes from a primitive.
func (c *Cipher) getOrCreateMessageKeys(chain domain.Chain, counter uint32) (domain.MessageKeys, domain.Chain, error) {
	if counter < chain.Index {
		keys, ok := chain.MessageKeys[counter]
		if !ok {
			return domain.MessageKeys{}, chain, errors.Wrapf(ErrDuplicateMessage, "received message with old counter %d", counter)
		}
		delete(chain.MessageKeys, counter)
		return keys, chain, nil
	}

	// No sender can emit the last iteration: advancing past it is impossible.
	if counter == math.MaxUint32 {
		return domain.MessageKeys{}, chain, errors.Wrapf(ErrInvalidMessage, "counter %d is beyond the chain", counter)
	}
	if counter-chain.Index > c.policy.MaxMessageSkip {
		return domain.MessageKeys{}, chain, errors.Wrapf(ErrInvalidMessage,
			"too many skipped messages (%d ahead of %d)", counter-chain.Index, chain.Index)
	}

	if chain.MessageKeys == nil {
		chain.MessageKeys = make(map[uint32]domain.MessageKeys)
	}
	for chain.Index < counter {
		keys, err := ratchet.DeriveMessageKeys(c.crypto, chain.Key, chain.Index)
		if err != nil {
			return domain.MessageKeys{}, chain, err
		}
		chain.MessageKeys[chain.Index] = keys
		if chain, err = ratchet.Advance(c.crypto, chain); err != nil {
			return domain.MessageKeys{}, chain, err
		}
	}
	c.trimSkipped(chain)

	keys, err := ratchet.DeriveMessageKeys(c.crypto, chain.Key, chain.Index)
	if err != nil {
		return domain.MessageKeys{}, chain, err
	}
	if chain, err = ratchet.Advance(c.crypto, chain); err != nil {
		return domain.MessageKeys{}, chain, err
	}
	return keys, chain, nil
}

// trimSkipped drops the oldest cached keys until at most MaxMessageSkip remain.
func (c *Cipher) trimSkipped(chain domain.Chain) {
	excess := len(chain.MessageKeys) - int(c.policy.MaxMessageSkip)
	if excess <= 0 {
		return
	}
	for _, i := range chain.SkippedIterations()[:excess] {
		chain.MessageKeys[i].Wipe()
		delete(chain.MessageKeys, i)
	}
}

// Policy returns the limits the cipher applies.
func (c *Cipher) Policy() Policy { return c.policy }
