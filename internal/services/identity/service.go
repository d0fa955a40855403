package identity

import (
	"fmt"
	"unicode"

	"github.com/pkg/errors"

	"senderkey/internal/crypto"
	"senderkey/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12

	// Registration ids fit two protobuf varint bytes unless the extended
	// range is requested.
	registrationIDLimit         = 16380
	extendedRegistrationIDLimit = 0xfffffffe

	// MaxPreKeyID is the largest pre-key id. It doubles as the id of the
	// last resort pre-key.
	MaxPreKeyID domain.PreKeyID = 0xffffff
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
	// ErrBadPreKeyCount is returned when a non-positive number of pre-keys is requested.
	ErrBadPreKeyCount = errors.New("pre-key count must be positive")
)

// Service manages identity key creation and access using a backing store.
//
// The identity contains an Ed25519 key pair and a registration id, both
// generated once at install time.
type Service struct {
	crypto  domain.Crypto
	store   domain.IdentityStore
	preKeys domain.PreKeyStore
}

// New returns an identity service backed by the given stores.
func New(c domain.Crypto, s domain.IdentityStore, ps domain.PreKeyStore) *Service {
	return &Service{crypto: c, store: s, preKeys: ps}
}

// GenerateIdentity creates a new identity, saves it encrypted with the passphrase,
// and returns the identity plus a short fingerprint of its public key.
func (s *Service) GenerateIdentity(
	passphrase string,
	extendedRange bool,
) (domain.Identity, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, "", ErrWeakPassphrase
	}

	keyPair, err := s.GenerateIdentityKeyPair()
	if err != nil {
		return domain.Identity{}, "", err
	}
	registrationID, err := s.GenerateRegistrationID(extendedRange)
	if err != nil {
		return domain.Identity{}, "", err
	}

	id := domain.Identity{KeyPair: keyPair, RegistrationID: registrationID}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, "", err
	}
	return id, fingerprint(id), nil
}

// LoadIdentity decrypts and returns the local identity.
func (s *Service) LoadIdentity(passphrase string) (domain.Identity, error) {
	return s.store.LoadIdentity(passphrase)
}

// FingerprintIdentity returns a short fingerprint of the local public key.
func (s *Service) FingerprintIdentity(passphrase string) (domain.Fingerprint, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return fingerprint(id), nil
}

// GenerateIdentityKeyPair returns a fresh identity key pair.
func (s *Service) GenerateIdentityKeyPair() (domain.KeyPair, error) {
	return s.crypto.GenerateKeyPair()
}

// GenerateRegistrationID returns a random id in [1, 16380], or in
// [1, 0xfffffffe] when extendedRange is set.
func (s *Service) GenerateRegistrationID(extendedRange bool) (domain.RegistrationID, error) {
	limit := uint32(registrationIDLimit)
	if extendedRange {
		limit = extendedRegistrationIDLimit
	}
	v, err := s.crypto.RandomInt(limit)
	if err != nil {
		return 0, err
	}
	return domain.RegistrationID(v + 1), nil
}

// GeneratePreKeys returns count pre-keys with ids starting after start and
// wrapping within 24 bits, so ids repeat as rarely as possible when callers
// keep passing the last id they used.
func (s *Service) GeneratePreKeys(start domain.PreKeyID, count int) ([]domain.PreKey, error) {
	if count <= 0 {
		return nil, ErrBadPreKeyCount
	}
	out := make([]domain.PreKey, 0, count)
	for i := 0; i < count; i++ {
		kp, err := s.crypto.GenerateKeyPair()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PreKey{ID: preKeyID(start, i), KeyPair: kp})
	}
	return out, nil
}

// GenerateLastResortPreKey returns the pre-key handed out once all others
// are consumed.
func (s *Service) GenerateLastResortPreKey() (domain.PreKey, error) {
	kp, err := s.crypto.GenerateKeyPair()
	if err != nil {
		return domain.PreKey{}, err
	}
	return domain.PreKey{ID: MaxPreKeyID, KeyPair: kp}, nil
}

// GenerateSignedPreKey returns a pre-key whose public half is signed by
// identity.
func (s *Service) GenerateSignedPreKey(identity domain.KeyPair, id domain.PreKeyID) (domain.SignedPreKey, error) {
	if !identity.HasPrivate() {
		return domain.SignedPreKey{}, errors.New("identity key pair has no private key")
	}
	kp, err := s.crypto.GenerateKeyPair()
	if err != nil {
		return domain.SignedPreKey{}, err
	}
	sig, err := s.crypto.Sign(*identity.Private, kp.Public.Slice())
	if err != nil {
		return domain.SignedPreKey{}, err
	}
	return domain.SignedPreKey{ID: id, KeyPair: kp, Signature: sig}, nil
}

// GenerateAndStorePreKeys creates a signed pre-key and count one-time
// pre-keys, plus the last resort pre-key when none is stored yet, and
// persists them. The signed pre-key takes the id of the first one-time
// pre-key; the two are stored apart.
func (s *Service) GenerateAndStorePreKeys(
	passphrase string,
	start domain.PreKeyID,
	count int,
) (domain.SignedPreKey, []domain.PreKey, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return domain.SignedPreKey{}, nil, err
	}
	keys, err := s.GeneratePreKeys(start, count)
	if err != nil {
		return domain.SignedPreKey{}, nil, err
	}
	spk, err := s.GenerateSignedPreKey(id.KeyPair, preKeyID(start, 0))
	if err != nil {
		return domain.SignedPreKey{}, nil, err
	}

	stored, err := s.preKeys.ListPreKeyIDs()
	if err != nil {
		return domain.SignedPreKey{}, nil, err
	}
	toSave := keys
	if !containsID(stored, MaxPreKeyID) && !containsKey(keys, MaxPreKeyID) {
		lastResort, err := s.GenerateLastResortPreKey()
		if err != nil {
			return domain.SignedPreKey{}, nil, err
		}
		toSave = append(append([]domain.PreKey(nil), keys...), lastResort)
	}

	if err := s.preKeys.SaveSignedPreKey(spk); err != nil {
		return domain.SignedPreKey{}, nil, err
	}
	if err := s.preKeys.SavePreKeys(toSave); err != nil {
		return domain.SignedPreKey{}, nil, err
	}
	return spk, keys, nil
}

func preKeyID(start domain.PreKeyID, i int) domain.PreKeyID {
	return (start+domain.PreKeyID(i))%MaxPreKeyID + 1
}

func containsID(ids []domain.PreKeyID, id domain.PreKeyID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsKey(keys []domain.PreKey, id domain.PreKeyID) bool {
	for _, k := range keys {
		if k.ID == id {
			return true
		}
	}
	return false
}

func fingerprint(id domain.Identity) domain.Fingerprint {
	return domain.Fingerprint(crypto.Fingerprint(id.KeyPair.Public.Slice()))
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
