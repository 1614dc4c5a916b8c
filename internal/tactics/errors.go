package tactics

import (
	"errors"
	"fmt"
)

// TransportError means the run request did not complete: it could not be
// sent, the body could not be read, or the service answered with a non-2xx
// status.
type TransportError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tactics: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("tactics: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError means the service answered but the payload was not a turn
// result.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tactics: invalid response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("tactics: invalid response: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsFormat reports whether err is or wraps a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
