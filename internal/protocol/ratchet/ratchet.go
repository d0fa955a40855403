package ratchet

import (
	"math"

	"github.com/pkg/errors"

	"senderkey/internal/crypto"
	"senderkey/internal/domain"
)

const (
	messageKeySeed = 0x01
	chainKeySeed   = 0x02

	// CipherKeySize and IVSize are the lengths of the derived message keys.
	CipherKeySize = crypto.CipherKeySize
	IVSize        = crypto.IVSize
)

// whisperGroup is the HKDF info label separating group message keys from
// every other use of the chain key.
var whisperGroup = []byte("WhisperGroup")

var errChainUninitialised = errors.New("ratchet chain key is uninitialised")

// ErrChainExhausted is returned by Advance once the index reached its
// maximum; the index never wraps.
var ErrChainExhausted = errors.New("ratchet chain is exhausted")

// Advance clicks the hash ratchet forward one step: Index+1 and a new key
// derived one-way from the old one. The returned chain carries over the
// skipped-key cache of chain unchanged; callers that need isolation clone
// first.
func Advance(c domain.Crypto, chain domain.Chain) (domain.Chain, error) {
	if len(chain.Key) == 0 {
		return domain.Chain{}, errChainUninitialised
	}
	if chain.Index == math.MaxUint32 {
		return domain.Chain{}, ErrChainExhausted
	}
	next, err := hmacByte(c, chain.Key, chainKeySeed)
	if err != nil {
		return domain.Chain{}, err
	}
	chain.Key = next
	chain.Index++
	return chain, nil
}

// DeriveMessageKeys derives the single-use keys for the iteration whose chain
// key is chainKey. It does not advance anything.
func DeriveMessageKeys(c domain.Crypto, chainKey []byte, iteration uint32) (domain.MessageKeys, error) {
	if len(chainKey) == 0 {
		return domain.MessageKeys{}, errChainUninitialised
	}
	seed, err := hmacByte(c, chainKey, messageKeySeed)
	if err != nil {
		return domain.MessageKeys{}, err
	}
	material, err := c.DeriveSecrets(seed, whisperGroup, IVSize+CipherKeySize)
	if err != nil {
		return domain.MessageKeys{}, err
	}
	return domain.MessageKeys{
		Iteration: iteration,
		IV:        material[:IVSize:IVSize],
		CipherKey: material[IVSize:],
	}, nil
}

func hmacByte(c domain.Crypto, key []byte, b byte) ([]byte, error) {
	return c.HMAC(key, []byte{b})
}
