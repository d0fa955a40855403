package app

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	protocol "senderkey/internal/protocol/group"
)

// Group session store backends.
const (
	BackendFile    = "file"
	BackendLevelDB = "leveldb"
	BackendRedis   = "redis"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string // config directory, e.g. $HOME/.senderkey
	Backend     string // group session store: file, leveldb or redis; default file
	RedisAddr   string // host:port, required for the redis backend
	RedisPrefix string // key prefix for the redis backend; empty means the default

	MaxMessageSkip   uint32 // 0 means protocol.DefaultMaxMessageSkip
	MaxSessionStates int    // 0 means protocol.DefaultMaxSessionStates

	Logger *zap.Logger // optional; defaults to a no-op logger
}

// Validate reports configuration that cannot be wired.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("home directory is required")
	}
	switch c.Backend {
	case "", BackendFile, BackendLevelDB:
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("redis backend requires a redis address")
		}
	default:
		return errors.Errorf("unknown store backend %q", c.Backend)
	}
	if c.MaxSessionStates < 0 {
		return errors.Errorf("max session states must not be negative, got %d", c.MaxSessionStates)
	}
	return nil
}

// Policy returns the protocol limits selected by c.
func (c Config) Policy() protocol.Policy {
	return protocol.Policy{
		MaxMessageSkip:   c.MaxMessageSkip,
		MaxSessionStates: c.MaxSessionStates,
	}
}
