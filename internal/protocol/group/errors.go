package group

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	// ErrUnsupportedProtocolVersion is returned for any declared version other
	// than CurrentVersion.
	ErrUnsupportedProtocolVersion = errors.New("unsupported protocol version")
	// ErrInvalidMessage is returned when a message is rejected.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrDuplicateMessage is returned when a message iteration was already consumed.
	ErrDuplicateMessage = errors.New("duplicate message")
	// ErrInvalidKey is returned when a state cannot be used for the requested operation.
	ErrInvalidKey = errors.New("invalid key")
)

// DecryptError reports that no candidate state could decrypt a message. It
// matches ErrDuplicateMessage when every candidate failed because the
// iteration was already consumed, and ErrInvalidMessage otherwise. Causes
// holds the failure of each candidate in the order they were tried.
type DecryptError struct {
	Kind   error
	Causes []error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("unable to decrypt message: %v", multierr.Combine(e.Causes...))
}

// Unwrap exposes Kind to errors.Is.
func (e *DecryptError) Unwrap() error { return e.Kind }

func newDecryptError(causes []error) *DecryptError {
	kind := ErrDuplicateMessage
	for _, c := range causes {
		if !errors.Is(c, ErrDuplicateMessage) {
			kind = ErrInvalidMessage
			break
		}
	}
	return &DecryptError{Kind: kind, Causes: causes}
}

func unsupportedVersion(v uint32) error {
	return errors.Wrapf(ErrUnsupportedProtocolVersion, "protocol version %d is not supported", v)
}
