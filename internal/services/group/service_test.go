package group

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"go.uber.org/zap/zaptest"

	"senderkey/internal/crypto"
	"senderkey/internal/domain"
	protocol "senderkey/internal/protocol/group"
	"senderkey/internal/protocol/wire"
	"senderkey/internal/store"
)

const (
	testGroup domain.GroupID  = "book-club"
	alice     domain.SenderID = "alice"
	bob       domain.SenderID = "bob"
)

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

type ServiceTestSuite struct {
	suite.Suite
	dbs   []*leveldb.DB
	alice *Service
	bob   *Service
}

func (s *ServiceTestSuite) newService() *Service {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	s.Require().NoError(err)
	s.dbs = append(s.dbs, db)
	return New(
		crypto.New(),
		wire.New(),
		store.NewGroupSessionLevelDBStore(db),
		protocol.DefaultPolicy(),
		zaptest.NewLogger(s.T()),
	)
}

func (s *ServiceTestSuite) SetupTest() {
	s.dbs = nil
	s.alice = s.newService()
	s.bob = s.newService()
}

func (s *ServiceTestSuite) TearDownTest() {
	for _, db := range s.dbs {
		s.NoError(db.Close())
	}
}

func (s *ServiceTestSuite) join() {
	ctx := context.Background()
	dist, err := s.alice.CreateSenderKey(ctx, testGroup, alice)
	s.Require().NoError(err)
	s.Require().NoError(s.bob.ProcessDistributionMessage(ctx, testGroup, alice, dist))
}

func (s *ServiceTestSuite) TestEncryptWithoutSenderKey() {
	_, err := s.alice.Encrypt(context.Background(), testGroup, alice, []byte("x"))
	s.ErrorIs(err, ErrNoSenderKey)

	_, err = s.alice.DistributionMessage(context.Background(), testGroup, alice)
	s.ErrorIs(err, ErrNoSenderKey)
}

func (s *ServiceTestSuite) TestDecryptWithoutSession() {
	_, err := s.bob.Decrypt(context.Background(), testGroup, alice, []byte("x"))
	s.ErrorIs(err, protocol.ErrInvalidMessage)
}

func (s *ServiceTestSuite) TestRoundTripPersists() {
	ctx := context.Background()
	s.join()

	for i := 0; i < 3; i++ {
		text := fmt.Sprintf("message %d", i)
		msg, err := s.alice.Encrypt(ctx, testGroup, alice, []byte(text))
		s.Require().NoError(err)

		plaintext, err := s.bob.Decrypt(ctx, testGroup, alice, msg)
		s.Require().NoError(err)
		s.Equal(text, string(plaintext))

		// The consumed key is gone from the stored session.
		_, err = s.bob.Decrypt(ctx, testGroup, alice, msg)
		s.ErrorIs(err, protocol.ErrDuplicateMessage)
	}
}

func (s *ServiceTestSuite) TestLateDistributionStartsAtCurrentIteration() {
	ctx := context.Background()
	_, err := s.alice.CreateSenderKey(ctx, testGroup, alice)
	s.Require().NoError(err)
	early, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("early"))
	s.Require().NoError(err)

	dist, err := s.alice.DistributionMessage(ctx, testGroup, alice)
	s.Require().NoError(err)
	s.Require().NoError(s.bob.ProcessDistributionMessage(ctx, testGroup, alice, dist))

	_, err = s.bob.Decrypt(ctx, testGroup, alice, early)
	s.ErrorIs(err, protocol.ErrDuplicateMessage)

	late, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("late"))
	s.Require().NoError(err)
	plaintext, err := s.bob.Decrypt(ctx, testGroup, alice, late)
	s.Require().NoError(err)
	s.Equal("late", string(plaintext))
}

func (s *ServiceTestSuite) TestRekeyKeepsOldEpochReadable() {
	ctx := context.Background()
	s.join()
	old, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("old epoch"))
	s.Require().NoError(err)

	dist, err := s.alice.CreateSenderKey(ctx, testGroup, alice)
	s.Require().NoError(err)
	s.Require().NoError(s.bob.ProcessDistributionMessage(ctx, testGroup, alice, dist))
	fresh, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("new epoch"))
	s.Require().NoError(err)

	plaintext, err := s.bob.Decrypt(ctx, testGroup, alice, fresh)
	s.Require().NoError(err)
	s.Equal("new epoch", string(plaintext))
	plaintext, err = s.bob.Decrypt(ctx, testGroup, alice, old)
	s.Require().NoError(err)
	s.Equal("old epoch", string(plaintext))
}

func (s *ServiceTestSuite) TestForeignDistributionCannotReplaceOwnKey() {
	ctx := context.Background()
	s.join()

	// Bob announces an epoch claiming to be alice, to alice herself.
	forged, err := s.bob.CreateSenderKey(ctx, testGroup, bob)
	s.Require().NoError(err)
	s.Require().NoError(s.alice.ProcessDistributionMessage(ctx, testGroup, alice, forged))

	msg, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("still mine"))
	s.Require().NoError(err)
	plaintext, err := s.bob.Decrypt(ctx, testGroup, alice, msg)
	s.Require().NoError(err)
	s.Equal("still mine", string(plaintext))
}

func (s *ServiceTestSuite) TestReservedSenderIsRejected() {
	ctx := context.Background()
	s.join()

	forged, err := s.bob.CreateSenderKey(ctx, testGroup, bob)
	s.Require().NoError(err)
	err = s.alice.ProcessDistributionMessage(ctx, testGroup, ownSender(alice), forged)
	s.Require().ErrorIs(err, ErrReservedSender)
	err = s.alice.ProcessDistributionMessage(ctx, testGroup, "self:", forged)
	s.Require().ErrorIs(err, ErrReservedSender)

	msg, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("still mine"))
	s.Require().NoError(err)
	_, err = s.alice.Decrypt(ctx, testGroup, ownSender(alice), msg)
	s.ErrorIs(err, ErrReservedSender)

	plaintext, err := s.bob.Decrypt(ctx, testGroup, alice, msg)
	s.Require().NoError(err)
	s.Equal("still mine", string(plaintext))
}

func (s *ServiceTestSuite) TestSessionsDoNotCollideAcrossSeparators() {
	ctx := context.Background()
	dist, err := s.alice.CreateSenderKey(ctx, "a|b", "c")
	s.Require().NoError(err)
	s.Require().NoError(s.bob.ProcessDistributionMessage(ctx, "a|b", "c", dist))

	msg, err := s.alice.Encrypt(ctx, "a|b", "c", []byte("x"))
	s.Require().NoError(err)
	_, err = s.bob.Decrypt(ctx, "a", "b|c", msg)
	s.ErrorIs(err, protocol.ErrInvalidMessage)

	plaintext, err := s.bob.Decrypt(ctx, "a|b", "c", msg)
	s.Require().NoError(err)
	s.Equal("x", string(plaintext))
}

func (s *ServiceTestSuite) TestFailedDecryptLeavesSessionUntouched() {
	ctx := context.Background()
	s.join()
	msg, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("x"))
	s.Require().NoError(err)

	tampered := append([]byte(nil), msg...)
	tampered[len(tampered)-1] ^= 1
	_, err = s.bob.Decrypt(ctx, testGroup, alice, tampered)
	s.ErrorIs(err, protocol.ErrInvalidMessage)

	plaintext, err := s.bob.Decrypt(ctx, testGroup, alice, msg)
	s.Require().NoError(err)
	s.Equal("x", string(plaintext))
}

func (s *ServiceTestSuite) TestConcurrentUse() {
	ctx := context.Background()
	s.join()

	const n = 50
	msgs := make([][]byte, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg, err := s.alice.Encrypt(ctx, testGroup, alice, []byte{byte(i)})
			s.NoError(err)
			msgs[i] = msg
		}(i)
	}
	wg.Wait()

	got := make([][]byte, n)
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plaintext, err := s.bob.Decrypt(ctx, testGroup, alice, msgs[i])
			s.NoError(err)
			got[i] = plaintext
		}(i)
	}
	wg.Wait()

	for i := range got {
		s.Equal([]byte{byte(i)}, got[i])
	}
}

func (s *ServiceTestSuite) TestCanceledContext() {
	s.join()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.alice.Encrypt(ctx, testGroup, alice, []byte("x"))
	s.ErrorIs(err, context.Canceled)
}

func TestKeyedMutexReleasesKeys(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("a")
	unlockB := k.Lock("b")
	unlock()
	unlockB()
	if len(k.locks) != 0 {
		t.Fatalf("expected no retained locks, got %d", len(k.locks))
	}
}
