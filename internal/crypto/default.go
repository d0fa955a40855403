package crypto

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"senderkey/internal/domain"
)

const (
	// CipherKeySize is the message cipher key length in bytes.
	CipherKeySize = chacha20poly1305.KeySize
	// IVSize is the message nonce length in bytes.
	IVSize = chacha20poly1305.NonceSize
)

var (
	ErrBadKeySize = errors.New("crypto: bad key size")
	ErrBadIVSize  = errors.New("crypto: bad iv size")
)

// Default implements domain.Crypto with Ed25519 signatures, HMAC-SHA256,
// HKDF-SHA256 and ChaCha20-Poly1305.
type Default struct {
	rand io.Reader
}

// New returns a Default reading randomness from crypto/rand.
func New() *Default { return &Default{rand: rand.Reader} }

// NewWithRand returns a Default reading randomness from r. Intended for tests.
func NewWithRand(r io.Reader) *Default { return &Default{rand: r} }

// GenerateKeyPair returns a fresh Ed25519 key pair.
func (d *Default) GenerateKeyPair() (domain.KeyPair, error) {
	priv, pub, err := GenerateEd25519(d.rand)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{Public: pub, Private: &priv}, nil
}

// RandomBytes returns n random bytes.
func (d *Default) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(d.rand, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomInt returns a uniform value in [0, maxExclusive).
func (d *Default) RandomInt(maxExclusive uint32) (uint32, error) {
	if maxExclusive == 0 {
		return 0, errors.New("crypto: random int upper bound must be positive")
	}
	v, err := rand.Int(d.rand, big.NewInt(int64(maxExclusive)))
	if err != nil {
		return 0, err
	}
	return uint32(v.Uint64()), nil
}

// HMAC returns HMAC-SHA256(key, data).
func (d *Default) HMAC(key, data []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}

// DeriveSecrets runs HKDF-SHA256 over input with an all-zero salt.
func (d *Default) DeriveSecrets(input, info []byte, n int) ([]byte, error) {
	salt := make([]byte, sha256.Size)
	r := hkdf.New(sha256.New, input, salt, info)
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, errors.Wrap(err, "hkdf expand")
	}
	return out, nil
}

// Encrypt seals plaintext under key with iv as nonce.
func (d *Default) Encrypt(key, plaintext, iv []byte) ([]byte, error) {
	aead, err := newAEAD(key, iv)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, iv, plaintext, nil), nil
}

// Decrypt opens ciphertext sealed by Encrypt.
func (d *Default) Decrypt(key, ciphertext, iv []byte) ([]byte, error) {
	aead, err := newAEAD(key, iv)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, iv, ciphertext, nil)
}

// Sign signs data with priv.
func (d *Default) Sign(priv domain.Ed25519Private, data []byte) ([]byte, error) {
	return SignEd25519(priv, data), nil
}

// VerifySignature reports whether signature is valid for data under pub.
func (d *Default) VerifySignature(pub domain.Ed25519Public, data, signature []byte) (bool, error) {
	return VerifyEd25519(pub, data, signature), nil
}

func newAEAD(key, iv []byte) (cipher.AEAD, error) {
	if len(key) != CipherKeySize {
		return nil, ErrBadKeySize
	}
	if len(iv) != IVSize {
		return nil, ErrBadIVSize
	}
	return chacha20poly1305.New(key)
}

// Compile-time assertion that Default implements domain.Crypto.
var _ domain.Crypto = (*Default)(nil)
