// Package irrecoverable separates failures the caller can handle from
// failures that leave the process in an unknown state.
package irrecoverable

import (
	"errors"
	"fmt"
)

// exception wraps an error which the caller is not expected to handle.
type exception struct {
	err error
}

func (e exception) Error() string {
	return e.err.Error()
}

func (e exception) Unwrap() error {
	return e.err
}

// NewException wraps err as an exception.
func NewException(err error) error {
	return exception{err: err}
}

// NewExceptionf formats an error, with %w support, and wraps it as an
// exception.
func NewExceptionf(msg string, args ...interface{}) error {
	return exception{err: fmt.Errorf(msg, args...)}
}

// IsException returns true if err is an exception or wraps one.
func IsException(err error) bool {
	var e exception
	return errors.As(err, &e)
}
