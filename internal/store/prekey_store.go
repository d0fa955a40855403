package store

import (
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"senderkey/internal/domain"
)

const (
	preKeysFile       = "prekeys.json"
	signedPreKeysFile = "signed_prekeys.json"
)

// PreKeyFileStore persists one-time and signed pre-keys to disk.
type PreKeyFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPreKeyFileStore returns a PreKeyFileStore rooted at dir.
func NewPreKeyFileStore(dir string) *PreKeyFileStore {
	return &PreKeyFileStore{dir: dir}
}

// JSON object keys must be strings.
func preKeyKey(id domain.PreKeyID) string { return strconv.FormatUint(uint64(id), 10) }

// SavePreKeys merges keys into the store, replacing entries with the same id.
func (s *PreKeyFileStore) SavePreKeys(keys []domain.PreKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, preKeysFile)
	m := map[string]domain.PreKey{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	for _, k := range keys {
		m[preKeyKey(k.ID)] = k
	}
	return writeJSON(path, m, 0o600)
}

// ConsumePreKey removes and returns a single one-time pre-key by id.
func (s *PreKeyFileStore) ConsumePreKey(id domain.PreKeyID) (domain.PreKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, preKeysFile)
	m := map[string]domain.PreKey{}
	if err := readJSON(path, &m); err != nil {
		return domain.PreKey{}, false, err
	}
	k, ok := m[preKeyKey(id)]
	if !ok {
		return domain.PreKey{}, false, nil
	}
	delete(m, preKeyKey(id))
	if err := writeJSON(path, m, 0o600); err != nil {
		return domain.PreKey{}, false, err
	}
	return k, true, nil
}

// ListPreKeyIDs returns the ids of the remaining one-time pre-keys in
// ascending order.
func (s *PreKeyFileStore) ListPreKeyIDs() ([]domain.PreKeyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string]domain.PreKey{}
	if err := readJSON(filepath.Join(s.dir, preKeysFile), &m); err != nil {
		return nil, err
	}
	out := make([]domain.PreKeyID, 0, len(m))
	for _, k := range m {
		out = append(out, k.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// SaveSignedPreKey stores a signed pre-key by id.
func (s *PreKeyFileStore) SaveSignedPreKey(key domain.SignedPreKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, signedPreKeysFile)
	m := map[string]domain.SignedPreKey{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[preKeyKey(key.ID)] = key
	return writeJSON(path, m, 0o600)
}

// LoadSignedPreKey retrieves a signed pre-key by id.
func (s *PreKeyFileStore) LoadSignedPreKey(id domain.PreKeyID) (domain.SignedPreKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string]domain.SignedPreKey{}
	if err := readJSON(filepath.Join(s.dir, signedPreKeysFile), &m); err != nil {
		return domain.SignedPreKey{}, false, err
	}
	k, ok := m[preKeyKey(id)]
	return k, ok, nil
}

// Compile-time assertion that PreKeyFileStore implements domain.PreKeyStore.
var _ domain.PreKeyStore = (*PreKeyFileStore)(nil)
