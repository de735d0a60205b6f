package device

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionTimeout occurs when a connection to the peripheral can't
	// be established. Errors returned by Connect match it via errors.Is; use
	// errors.As with *ConnectionTimeoutError for the address and cause.
	ErrConnectionTimeout = errors.New("failed connecting to device")
	// ErrInvalidPayload occurs when a frame payload exceeds 17 bytes.
	ErrInvalidPayload = errors.New("invalid frame payload")
	// ErrInvalidCommand occurs when a frame is requested for a command tag
	// that isn't one of the known Command values.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrOutOfRange occurs when a brightness or white value lies outside its
	// documented interval.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidColour occurs when a colour can't be resolved to RGB.
	ErrInvalidColour = errors.New("invalid colour")
	// ErrClosed occurs when an operation is attempted after Close.
	ErrClosed = errors.New("device connection is closed")
)

// ConnectionTimeoutError carries the address that could not be reached and
// the underlying transport error.
type ConnectionTimeoutError struct {
	Address string
	Err     error
}

func (e *ConnectionTimeoutError) Error() string {
	return fmt.Sprintf("failed connecting to %s: %v", e.Address, e.Err)
}

func (e *ConnectionTimeoutError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrConnectionTimeout) match.
func (e *ConnectionTimeoutError) Is(target error) bool {
	return target == ErrConnectionTimeout
}
