package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// sealedFormatVersion is the newest envelope layout this package writes.
const sealedFormatVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// sealed file has been modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted file")

// scryptParams are the key-derivation cost parameters stored with each
// envelope so they can be raised without breaking old files.
type scryptParams struct {
	N int `json:"scrypt_N"`
	R int `json:"scrypt_r"`
	P int `json:"scrypt_p"`
}

func defaultScryptParams() scryptParams { return scryptParams{N: 1 << 15, R: 8, P: 1} }

// envelope is the on-disk JSON structure holding the ciphertext and KDF parameters.
type envelope struct {
	V    int    `json:"v"`
	Salt []byte `json:"salt"`
	scryptParams
	Cipher []byte `json:"cipher"`
}

// seal derives a key from passphrase and encrypts raw into an envelope.
func seal(passphrase string, raw []byte, params scryptParams) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, errors.Wrap(err, "read salt")
	}
	aead, err := envelopeAEAD(passphrase, salt[:], params)
	if err != nil {
		return nil, err
	}
	// A zero nonce is safe: every seal uses a fresh salt and so a fresh key.
	var nonce [chacha20poly1305.NonceSize]byte
	return json.Marshal(envelope{
		V:            sealedFormatVersion,
		Salt:         salt[:],
		scryptParams: params,
		Cipher:       aead.Seal(nil, nonce[:], raw, salt[:]),
	})
}

// open reverses seal.
func open(passphrase string, b []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	if env.V > sealedFormatVersion {
		return nil, errors.Errorf("unsupported envelope version %d", env.V)
	}
	aead, err := envelopeAEAD(passphrase, env.Salt, env.scryptParams)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], env.Cipher, env.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func envelopeAEAD(passphrase string, salt []byte, params scryptParams) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, params.N, params.R, params.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "derive envelope key")
	}
	return chacha20poly1305.New(key)
}
