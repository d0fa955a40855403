package group

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"senderkey/internal/domain"
	protocol "senderkey/internal/protocol/group"
)

// ownSenderPrefix marks the reserved sender id holding the local epochs.
const ownSenderPrefix = "self:"

// ErrNoSenderKey is returned when the local sender has no epoch in a group.
var ErrNoSenderKey = errors.New("no sender key for group, create one first")

// ErrReservedSender is returned when a peer-supplied sender id uses the
// prefix reserved for local epochs.
var ErrReservedSender = errors.New("sender id is reserved")

// Service implements domain.GroupService.
type Service struct {
	factory *protocol.SessionFactory
	cipher  *protocol.Cipher
	store   domain.GroupSessionStore
	locks   *keyedMutex
	logger  *zap.Logger
}

// New returns a Service. A nil logger disables logging.
func New(
	c domain.Crypto,
	codec domain.Codec,
	store domain.GroupSessionStore,
	policy protocol.Policy,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		factory: protocol.NewSessionFactory(c, codec, policy),
		cipher:  protocol.NewCipher(c, codec, policy),
		store:   store,
		locks:   newKeyedMutex(),
		logger:  logger.With(zap.Namespace("GroupService")),
	}
}

func ownSender(me domain.SenderID) domain.SenderID {
	return domain.SenderID(ownSenderPrefix + me.String())
}

func checkPeer(sender domain.SenderID) error {
	if strings.HasPrefix(sender.String(), ownSenderPrefix) {
		return errors.Wrapf(ErrReservedSender, "sender %q", sender)
	}
	return nil
}

func (s *Service) lock(group domain.GroupID, sender domain.SenderID) func() {
	return s.locks.Lock(group.String() + "\x00" + sender.String())
}

// CreateSenderKey starts a new local epoch in group and returns the
// distribution message announcing it. Older local epochs are kept, up to the
// session cap, so peers still catching up can be served.
func (s *Service) CreateSenderKey(ctx context.Context, group domain.GroupID, me domain.SenderID) ([]byte, error) {
	own := ownSender(me)
	defer s.lock(group, own)()

	session, _, err := s.store.LoadGroupSession(ctx, group, own)
	if err != nil {
		return nil, err
	}
	state, err := s.factory.CreateState()
	if err != nil {
		return nil, err
	}
	dist, err := s.factory.CreateDistributionMessage(state)
	if err != nil {
		return nil, err
	}
	session.AddState(state, s.factory.Policy().MaxSessionStates)
	if err := s.store.SaveGroupSession(ctx, group, own, session); err != nil {
		return nil, err
	}

	s.logger.Debug("created sender key",
		zap.String("group", group.String()),
		zap.Uint32("id", state.ID))
	return dist, nil
}

// DistributionMessage returns the distribution message for the current local
// epoch at its current iteration.
func (s *Service) DistributionMessage(ctx context.Context, group domain.GroupID, me domain.SenderID) ([]byte, error) {
	own := ownSender(me)
	defer s.lock(group, own)()

	state, err := s.currentState(ctx, group, own)
	if err != nil {
		return nil, err
	}
	return s.factory.CreateDistributionMessage(state)
}

// ProcessDistributionMessage records the epoch announced by sender in group.
func (s *Service) ProcessDistributionMessage(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
	message []byte,
) error {
	if err := checkPeer(sender); err != nil {
		return err
	}
	defer s.lock(group, sender)()

	session, _, err := s.store.LoadGroupSession(ctx, group, sender)
	if err != nil {
		return err
	}
	next, err := s.factory.ProcessDistributionMessage(session, message)
	if err != nil {
		s.logger.Warn("rejected distribution message",
			zap.String("group", group.String()),
			zap.String("sender", sender.String()),
			zap.Error(err))
		return err
	}
	if err := s.store.SaveGroupSession(ctx, group, sender, next); err != nil {
		return err
	}

	head, _ := next.MostRecentState()
	s.logger.Debug("processed distribution message",
		zap.String("group", group.String()),
		zap.String("sender", sender.String()),
		zap.Uint32("id", head.ID),
		zap.Uint32("iteration", head.Chain.Index))
	return nil
}

// Encrypt encrypts plaintext with the current local epoch in group.
func (s *Service) Encrypt(ctx context.Context, group domain.GroupID, me domain.SenderID, plaintext []byte) ([]byte, error) {
	own := ownSender(me)
	defer s.lock(group, own)()

	session, ok, err := s.store.LoadGroupSession(ctx, group, own)
	if err != nil {
		return nil, err
	}
	if !ok || session.Len() == 0 {
		return nil, ErrNoSenderKey
	}
	head, _ := session.MostRecentState()

	out, advanced, err := s.cipher.Encrypt(head, plaintext)
	if err != nil {
		return nil, err
	}
	session.States[0] = advanced
	if err := s.store.SaveGroupSession(ctx, group, own, session); err != nil {
		return nil, err
	}

	s.logger.Debug("encrypted group message",
		zap.String("group", group.String()),
		zap.Uint32("id", head.ID),
		zap.Uint32("iteration", head.Chain.Index))
	return out, nil
}

// Decrypt decrypts message from sender in group.
func (s *Service) Decrypt(
	ctx context.Context,
	group domain.GroupID,
	sender domain.SenderID,
	message []byte,
) ([]byte, error) {
	if err := checkPeer(sender); err != nil {
		return nil, err
	}
	defer s.lock(group, sender)()

	session, ok, err := s.store.LoadGroupSession(ctx, group, sender)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(protocol.ErrInvalidMessage, "no session for %s in %s", sender, group)
	}

	plaintext, next, err := s.cipher.Decrypt(session, message)
	if err != nil {
		s.logger.Warn("failed to decrypt group message",
			zap.String("group", group.String()),
			zap.String("sender", sender.String()),
			zap.Error(err))
		return nil, err
	}
	if err := s.store.SaveGroupSession(ctx, group, sender, next); err != nil {
		return nil, err
	}

	s.logger.Debug("decrypted group message",
		zap.String("group", group.String()),
		zap.String("sender", sender.String()))
	return plaintext, nil
}

func (s *Service) currentState(
	ctx context.Context,
	group domain.GroupID,
	own domain.SenderID,
) (domain.SenderKeyState, error) {
	session, _, err := s.store.LoadGroupSession(ctx, group, own)
	if err != nil {
		return domain.SenderKeyState{}, err
	}
	state, ok := session.MostRecentState()
	if !ok {
		return domain.SenderKeyState{}, ErrNoSenderKey
	}
	return state, nil
}

// Compile-time assertion that Service implements domain.GroupService.
var _ domain.GroupService = (*Service)(nil)
