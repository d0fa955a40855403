package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"senderkey/internal/domain"
)

var groupSessionPrefix = []byte("group-session/")

// GroupSessionLevelDBStore persists group sessions in a LevelDB database.
// LevelDB serialises writes itself, so the store needs no lock of its own.
type GroupSessionLevelDBStore struct {
	db *leveldb.DB
}

// NewGroupSessionLevelDBStore wraps an open database. The caller keeps
// ownership of db.
func NewGroupSessionLevelDBStore(db *leveldb.DB) *GroupSessionLevelDBStore {
	return &GroupSessionLevelDBStore{db: db}
}

// OpenLevelDB opens or creates the database at path.
func OpenLevelDB(path string) (*leveldb.DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", path)
	}
	return db, nil
}

func (s *GroupSessionLevelDBStore) key(group domain.GroupID, sender domain.SenderID) []byte {
	return append(append([]byte(nil), groupSessionPrefix...), sessionKey(group, sender)...)
}

// SaveGroupSession writes the session of sender within group.
func (s *GroupSessionLevelDBStore) SaveGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
	session domain.GroupSession,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := marshalSession(session)
	if err != nil {
		return err
	}
	return s.db.Put(s.key(group, sender), b, nil)
}

// LoadGroupSession retrieves the session of sender within group.
func (s *GroupSessionLevelDBStore) LoadGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
) (domain.GroupSession, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.GroupSession{}, false, err
	}
	b, err := s.db.Get(s.key(group, sender), nil)
	if err == leveldb.ErrNotFound {
		return domain.GroupSession{}, false, nil
	}
	if err != nil {
		return domain.GroupSession{}, false, err
	}
	session, err := unmarshalSession(b)
	if err != nil {
		return domain.GroupSession{}, false, err
	}
	return session, true, nil
}

// DeleteGroupSession forgets the session of sender within group. Deleting a
// missing key is not an error.
func (s *GroupSessionLevelDBStore) DeleteGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Delete(s.key(group, sender), nil)
}

// Compile-time assertion that GroupSessionLevelDBStore implements domain.GroupSessionStore.
var _ domain.GroupSessionStore = (*GroupSessionLevelDBStore)(nil)
