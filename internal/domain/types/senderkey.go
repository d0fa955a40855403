package types

import (
	"sort"

	"senderkey/internal/util/memzero"
)

// MessageKeys are the single-use keys for one iteration of a chain.
type MessageKeys struct {
	Iteration uint32 `json:"iteration"`
	CipherKey []byte `json:"cipher_key"`
	IV        []byte `json:"iv"`
}

// Clone returns a deep copy of mk.
func (mk MessageKeys) Clone() MessageKeys {
	return MessageKeys{
		Iteration: mk.Iteration,
		CipherKey: cloneBytes(mk.CipherKey),
		IV:        cloneBytes(mk.IV),
	}
}

// Wipe zeroes the key material in place.
func (mk MessageKeys) Wipe() {
	memzero.ZeroAll(mk.CipherKey, mk.IV)
}

// Chain is the cursor of a sender-key hash ratchet.
//
// Index never decreases. MessageKeys caches keys for iterations below Index
// that were skipped over and not yet consumed; an entry is removed the moment
// it is used.
type Chain struct {
	Key         []byte                 `json:"key"`
	Index       uint32                 `json:"index"`
	MessageKeys map[uint32]MessageKeys `json:"message_keys"`
}

// NewChain returns a chain positioned at index with an empty skipped-key cache.
func NewChain(key []byte, index uint32) Chain {
	return Chain{
		Key:         cloneBytes(key),
		Index:       index,
		MessageKeys: make(map[uint32]MessageKeys),
	}
}

// Clone deep-copies the chain, including every cached message key.
func (c Chain) Clone() Chain {
	out := Chain{
		Key:         cloneBytes(c.Key),
		Index:       c.Index,
		MessageKeys: make(map[uint32]MessageKeys, len(c.MessageKeys)),
	}
	for i, mk := range c.MessageKeys {
		out.MessageKeys[i] = mk.Clone()
	}
	return out
}

// SkippedIterations returns the cached iterations in ascending order.
func (c Chain) SkippedIterations() []uint32 {
	out := make([]uint32, 0, len(c.MessageKeys))
	for i := range c.MessageKeys {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// SenderKeyState is one epoch of one sender's hash ratchet.
type SenderKeyState struct {
	ID           uint32  `json:"id"`
	Chain        Chain   `json:"chain"`
	SignatureKey KeyPair `json:"signature_key"`
}

// Clone deep-copies the state so that mutating the copy never affects s.
func (s SenderKeyState) Clone() SenderKeyState {
	return SenderKeyState{
		ID:           s.ID,
		Chain:        s.Chain.Clone(),
		SignatureKey: s.SignatureKey.Clone(),
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
