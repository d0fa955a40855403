package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHMACKnownAnswer(t *testing.T) {
	// RFC 4231 test case 2.
	out, err := New().HMAC([]byte("Jefe"), []byte("what do ya want for nothing?"))
	require.NoError(t, err)
	require.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		hex.EncodeToString(out))
}

func TestDeriveSecretsLengthAndDeterminism(t *testing.T) {
	d := New()
	a, err := d.DeriveSecrets([]byte("seed"), []byte("WhisperGroup"), 44)
	require.NoError(t, err)
	require.Len(t, a, 44)

	b, err := d.DeriveSecrets([]byte("seed"), []byte("WhisperGroup"), 44)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := d.DeriveSecrets([]byte("seed"), []byte("other"), 44)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestAEADRoundTrip(t *testing.T) {
	d := New()
	key, err := d.RandomBytes(CipherKeySize)
	require.NoError(t, err)
	iv, err := d.RandomBytes(IVSize)
	require.NoError(t, err)

	ct, err := d.Encrypt(key, []byte("attack at dawn"), iv)
	require.NoError(t, err)
	pt, err := d.Decrypt(key, ct, iv)
	require.NoError(t, err)
	require.Equal(t, "attack at dawn", string(pt))

	ct[0] ^= 1
	_, err = d.Decrypt(key, ct, iv)
	require.Error(t, err)
}

func TestAEADRejectsBadSizes(t *testing.T) {
	d := New()
	_, err := d.Encrypt(make([]byte, 16), nil, make([]byte, IVSize))
	require.ErrorIs(t, err, ErrBadKeySize)
	_, err = d.Encrypt(make([]byte, CipherKeySize), nil, make([]byte, 16))
	require.ErrorIs(t, err, ErrBadIVSize)
}

func TestSignVerify(t *testing.T) {
	d := New()
	kp, err := d.GenerateKeyPair()
	require.NoError(t, err)
	require.True(t, kp.HasPrivate())

	sig, err := d.Sign(*kp.Private, []byte("msg"))
	require.NoError(t, err)

	ok, err := d.VerifySignature(kp.Public, []byte("msg"), sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = d.VerifySignature(kp.Public, []byte("msg!"), sig)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = d.VerifySignature(kp.Public, []byte("msg"), sig[:10])
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRandomInt(t *testing.T) {
	d := New()
	for i := 0; i < 100; i++ {
		v, err := d.RandomInt(3)
		require.NoError(t, err)
		require.Less(t, v, uint32(3))
	}
	_, err := d.RandomInt(0)
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint([]byte("key"))
	require.Len(t, fp, 20)
	require.Equal(t, fp, Fingerprint([]byte("key")))
	require.NotEqual(t, fp, Fingerprint([]byte("other")))

	var pub [32]byte
	require.Equal(t, Fingerprint(pub[:]), string(SenderIDFor(pub)))
}

func TestB64(t *testing.T) {
	b, err := FromB64(B64([]byte{0, 1, 2, 255}))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 255}, b)

	_, err = FromB64("%%%")
	require.Error(t, err)
}
