package app

import (
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"senderkey/internal/crypto"
	"senderkey/internal/domain"
	"senderkey/internal/protocol/wire"
	groupsvc "senderkey/internal/services/group"
	identitysvc "senderkey/internal/services/identity"
	"senderkey/internal/store"
)

const levelDBDir = "group_sessions.ldb"

// Wire bundles all stores and services for the CLI.
type Wire struct {
	Identity      domain.IdentityService
	Groups        domain.GroupService
	GroupSessions domain.GroupSessionStore

	closers []func() error
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Wire{}

	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.Home)
	prekeyStore := store.NewPreKeyFileStore(cfg.Home)

	switch cfg.Backend {
	case BackendLevelDB:
		db, err := store.OpenLevelDB(filepath.Join(cfg.Home, levelDBDir))
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, db.Close)
		w.GroupSessions = store.NewGroupSessionLevelDBStore(db)
	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		w.closers = append(w.closers, rdb.Close)
		w.GroupSessions = store.NewGroupSessionRedisStore(rdb, cfg.RedisPrefix)
	default:
		w.GroupSessions = store.NewGroupSessionFileStore(cfg.Home)
	}

	// High-level services
	c := crypto.New()
	w.Identity = identitysvc.New(c, identityStore, prekeyStore)
	w.Groups = groupsvc.New(c, wire.New(), w.GroupSessions, cfg.Policy(), logger)

	logger.Debug("wired application",
		zap.String("home", cfg.Home),
		zap.String("backend", cfg.Backend))
	return w, nil
}

// Close releases the backing stores.
func (w *Wire) Close() error {
	var err error
	for _, c := range w.closers {
		err = multierr.Append(err, c())
	}
	w.closers = nil
	return err
}
