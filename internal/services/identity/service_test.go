package identity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"senderkey/internal/crypto"
	"senderkey/internal/domain"
	"senderkey/internal/store"
)

const goodPassphrase = "Correct-Horse-42"

type fixedInt struct {
	*crypto.Default
	v     uint32
	limit uint32
}

func (f *fixedInt) RandomInt(limit uint32) (uint32, error) {
	f.limit = limit
	return f.v, nil
}

func newService(t *testing.T, c domain.Crypto) (*Service, *store.PreKeyFileStore) {
	t.Helper()
	dir := t.TempDir()
	ps := store.NewPreKeyFileStore(dir)
	return New(c, store.NewIdentityFileStore(dir), ps), ps
}

func TestGenerateIdentityRoundTrip(t *testing.T) {
	svc, _ := newService(t, crypto.New())

	id, fp, err := svc.GenerateIdentity(goodPassphrase, false)
	require.NoError(t, err)
	require.True(t, id.KeyPair.HasPrivate())
	require.GreaterOrEqual(t, uint32(id.RegistrationID), uint32(1))
	require.LessOrEqual(t, uint32(id.RegistrationID), uint32(registrationIDLimit))

	loaded, err := svc.LoadIdentity(goodPassphrase)
	require.NoError(t, err)
	require.Equal(t, id, loaded)

	got, err := svc.FingerprintIdentity(goodPassphrase)
	require.NoError(t, err)
	require.Equal(t, fp, got)
}

func TestGenerateIdentityRejectsWeakPassphrase(t *testing.T) {
	svc, _ := newService(t, crypto.New())
	for _, p := range []string{"short1!A", "alllowercase-123", "NoDigitsHere!!", "NoSymbols12345"} {
		_, _, err := svc.GenerateIdentity(p, false)
		require.ErrorIs(t, err, ErrWeakPassphrase, p)
	}
}

func TestGenerateRegistrationIDRange(t *testing.T) {
	for _, tc := range []struct {
		extended  bool
		random    uint32
		wantLimit uint32
		want      domain.RegistrationID
	}{
		{false, 0, 16380, 1},
		{false, 16379, 16380, 16380},
		{true, 0, 0xfffffffe, 1},
		{true, 0xfffffffd, 0xfffffffe, 0xfffffffe},
	} {
		c := &fixedInt{Default: crypto.New(), v: tc.random}
		svc, _ := newService(t, c)
		got, err := svc.GenerateRegistrationID(tc.extended)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
		require.Equal(t, tc.wantLimit, c.limit)
	}
}

func TestGeneratePreKeysWrapIDs(t *testing.T) {
	svc, _ := newService(t, crypto.New())

	keys, err := svc.GeneratePreKeys(0xfffffd, 4)
	require.NoError(t, err)
	ids := make([]domain.PreKeyID, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k.ID)
		require.True(t, k.KeyPair.HasPrivate())
	}
	require.Equal(t, []domain.PreKeyID{0xfffffe, 0xffffff, 1, 2}, ids)

	_, err = svc.GeneratePreKeys(1, 0)
	require.ErrorIs(t, err, ErrBadPreKeyCount)
}

func TestGenerateLastResortPreKey(t *testing.T) {
	svc, _ := newService(t, crypto.New())
	k, err := svc.GenerateLastResortPreKey()
	require.NoError(t, err)
	require.Equal(t, MaxPreKeyID, k.ID)
}

func TestGenerateSignedPreKeyVerifies(t *testing.T) {
	c := crypto.New()
	svc, _ := newService(t, c)
	identity, err := svc.GenerateIdentityKeyPair()
	require.NoError(t, err)

	spk, err := svc.GenerateSignedPreKey(identity, 5)
	require.NoError(t, err)
	require.Equal(t, domain.PreKeyID(5), spk.ID)

	ok, err := c.VerifySignature(identity.Public, spk.KeyPair.Public.Slice(), spk.Signature)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.GenerateSignedPreKey(identity.PublicOnly(), 5)
	require.Error(t, err)
}

func TestGenerateAndStorePreKeys(t *testing.T) {
	svc, ps := newService(t, crypto.New())
	_, _, err := svc.GenerateIdentity(goodPassphrase, false)
	require.NoError(t, err)

	spk, keys, err := svc.GenerateAndStorePreKeys(goodPassphrase, 0, 3)
	require.NoError(t, err)
	require.Len(t, keys, 3)

	ids, err := ps.ListPreKeyIDs()
	require.NoError(t, err)
	require.Equal(t, []domain.PreKeyID{1, 2, 3, MaxPreKeyID}, ids)

	stored, ok, err := ps.LoadSignedPreKey(spk.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, spk, stored)

	// The last resort pre-key is created once.
	_, _, err = svc.GenerateAndStorePreKeys(goodPassphrase, 3, 2)
	require.NoError(t, err)
	ids, err = ps.ListPreKeyIDs()
	require.NoError(t, err)
	require.Equal(t, []domain.PreKeyID{1, 2, 3, 4, 5, MaxPreKeyID}, ids)
}
