package responder

import (
	"context"
	"errors"
	"fmt"
)

// Failure kinds a Responder may report. Other errors are treated as
// ErrFailed by Classify.
var (
	ErrTimeout = errors.New("responder timeout")
	ErrFailed  = errors.New("responder error")

	ErrUnknownType = errors.New("unknown responder type")
	ErrTypeExists  = errors.New("responder type already registered")
	ErrEmptyType   = errors.New("responder type name is empty")

	ErrMissingAddress = errors.New("connect responder requires an address")
)

// Classify maps any responder failure onto ErrTimeout or ErrFailed while
// keeping the original error in the chain. A nil error stays nil.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrFailed):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}
}
