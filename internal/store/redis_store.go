package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"senderkey/internal/domain"
)

// DefaultRedisPrefix namespaces the keys GroupSessionRedisStore writes.
const DefaultRedisPrefix = "senderkey:group-session:"

// GroupSessionRedisStore persists group sessions in Redis so several
// processes can share them. Callers still serialise access per
// (group, sender); the store does not lock across processes.
type GroupSessionRedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewGroupSessionRedisStore returns a store writing keys under prefix, or
// DefaultRedisPrefix when prefix is empty.
func NewGroupSessionRedisStore(rdb redis.UniversalClient, prefix string) *GroupSessionRedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &GroupSessionRedisStore{rdb: rdb, prefix: prefix}
}

func (s *GroupSessionRedisStore) key(group domain.GroupID, sender domain.SenderID) string {
	return s.prefix + sessionKey(group, sender)
}

// SaveGroupSession writes the session of sender within group.
func (s *GroupSessionRedisStore) SaveGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
	session domain.GroupSession,
) error {
	b, err := marshalSession(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(group, sender), b, 0).Err()
}

// LoadGroupSession retrieves the session of sender within group.
func (s *GroupSessionRedisStore) LoadGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
) (domain.GroupSession, bool, error) {
	b, err := s.rdb.Get(ctx, s.key(group, sender)).Bytes()
	if err == redis.Nil {
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

// DeleteGroupSession forgets the session of sender within group.
func (s *GroupSessionRedisStore) DeleteGroupSession(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
) error {
	return s.rdb.Del(ctx, s.key(group, sender)).Err()
}

// Compile-time assertion that GroupSessionRedisStore implements domain.GroupSessionStore.
var _ domain.GroupSessionStore = (*GroupSessionRedisStore)(nil)
