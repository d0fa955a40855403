package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"senderkey/internal/domain"
)

const groupSessionsFilename = "group_sessions.json"

// sessionKey names the session of sender within group in every backend.
// The group is length-prefixed so no pair of ids can share a key.
func sessionKey(group domain.GroupID, sender domain.SenderID) string {
	return fmt.Sprintf("%d:%s|%s", len(group), group.String(), sender.String())
}

func marshalSession(session domain.GroupSession) ([]byte, error) {
	b, err := json.Marshal(session)
	return b, errors.Wrap(err, "encode group session")
}

func unmarshalSession(b []byte) (domain.GroupSession, error) {
	var session domain.GroupSession
	if err := json.Unmarshal(b, &session); err != nil {
		return domain.GroupSession{}, errors.Wrap(err, "decode group session")
	}
	return session, nil
}

// GroupSessionFileStore persists group sessions in a single JSON file.
type GroupSessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewGroupSessionFileStore returns a GroupSessionFileStore rooted at dir.
func NewGroupSessionFileStore(dir string) *GroupSessionFileStore {
	return &GroupSessionFileStore{dir: dir}
}

// SaveGroupSession writes the session of sender within group.
func (s *GroupSessionFileStore) SaveGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
	session domain.GroupSession,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, groupSessionsFilename)
	m := map[string]domain.GroupSession{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[sessionKey(group, sender)] = session
	return writeJSON(path, m, 0o600)
}

// LoadGroupSession retrieves the session of sender within group.
func (s *GroupSessionFileStore) LoadGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
) (domain.GroupSession, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.GroupSession{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string]domain.GroupSession{}
	if err := readJSON(filepath.Join(s.dir, groupSessionsFilename), &m); err != nil {
		return domain.GroupSession{}, false, err
	}
	session, ok := m[sessionKey(group, sender)]
	return session, ok, nil
}

// DeleteGroupSession forgets the session of sender within group.
func (s *GroupSessionFileStore) DeleteGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, groupSessionsFilename)
	m := map[string]domain.GroupSession{}
	if err := readJSON(path, &m); err != nil {
		return err
	}
	key := sessionKey(group, sender)
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return writeJSON(path, m, 0o600)
}

// Compile-time assertion that GroupSessionFileStore implements domain.GroupSessionStore.
var _ domain.GroupSessionStore = (*GroupSessionFileStore)(nil)
