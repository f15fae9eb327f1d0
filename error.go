package deepdoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	ECANCELED = "canceled"

	// Model backend failures. All three are retried by the gateway.
	ECONNECTION = "connection"
	ETIMEOUT    = "timeout"
	EMODEL      = "model"

	// ESCAN marks a project that could not be scanned. It is the only
	// error that aborts a documentation run.
	ESCAN = "scan"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("deepdoc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// RetryError is returned when an operation still fails after every attempt
// its retry policy allows.
type RetryError struct {
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }

// Attempts reports how many attempts produced err. Errors that did not go
// through a retry policy count as a single attempt.
func Attempts(err error) int {
	var re *RetryError
	if errors.As(err, &re) {
		return re.Attempts
	}
	if err == nil {
		return 0
	}
	return 1
}

// IsRetryable reports whether a model call that failed with err may be
// attempted again: connection failures, timeouts and model errors are
// transient, everything else is final.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case ECONNECTION, ETIMEOUT, EMODEL:
		return true
	}
	return false
}
