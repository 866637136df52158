package paymob

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when the client configuration is incomplete
var ErrInvalidConfig = errors.New("invalid paymob configuration")

// Error is an operational payment failure. It carries an HTTP-appropriate
// status and a message safe to return to callers; the underlying transport or
// gateway error is kept for logging only.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("paymob: %s (status %d): %v", e.Message, e.Status, e.Err)
	}
	return fmt.Sprintf("paymob: %s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from err, or wraps err into one with the given
// status and message when it is some other failure.
func AsError(err error, status int, message string) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return &Error{Status: status, Message: message, Err: err}
}
