package group

import "senderkey/internal/domain"

const (
	// CurrentVersion is the only protocol version emitted or accepted.
	CurrentVersion = 3

	// DefaultMaxMessageSkip bounds how far ahead of the chain a message may be.
	DefaultMaxMessageSkip = 2000
	// DefaultMaxSessionStates bounds the epochs retained per (group, sender).
	DefaultMaxSessionStates = 5

	// maxSenderKeyID is the exclusive upper bound of random epoch ids before
	// the +1 shift; ids stay in [1, 2^31-1].
	maxSenderKeyID = 1<<31 - 1
	chainKeySize   = 32
)

// Policy holds the tunable limits of the protocol.
type Policy struct {
	// MaxMessageSkip is the largest gap between the chain index and an
	// incoming iteration, and the cap on cached skipped keys.
	MaxMessageSkip uint32
	// MaxSessionStates is the number of epochs a session keeps.
	MaxSessionStates int
}

// DefaultPolicy returns the default limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxMessageSkip:   DefaultMaxMessageSkip,
		MaxSessionStates: DefaultMaxSessionStates,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxMessageSkip == 0 {
		p.MaxMessageSkip = DefaultMaxMessageSkip
	}
	if p.MaxSessionStates <= 0 {
		p.MaxSessionStates = DefaultMaxSessionStates
	}
	return p
}

func currentVersion() domain.ProtocolVersion {
	return domain.ProtocolVersion{Current: CurrentVersion, Max: CurrentVersion}
}
