package rest

import (
	"errors"
	"net/http"

	"github.com/arpa-network/randcast-controller/state/controller"
)

// StatusError provides custom error with http status.
type StatusError interface {
	error                // this is the actual error that occurred
	Status() int         // the HTTP status code to return
	UserMessage() string // the error message to return to the client
}

// NewRestError creates an error returned to user with provided status
// user displayed message and internal error
func NewRestError(status int, msg string, err error) *Error {
	return &Error{
		status:      status,
		userMessage: msg,
		err:         err,
	}
}

// NewNotFoundError creates a new not found rest error.
func NewNotFoundError(msg string, err error) *Error {
	return &Error{
		status:      http.StatusNotFound,
		userMessage: msg,
		err:         err,
	}
}

// NewBadRequestError creates a new bad request rest error.
func NewBadRequestError(err error) *Error {
	return &Error{
		status:      http.StatusBadRequest,
		userMessage: err.Error(),
		err:         err,
	}
}

// Error is implementation of status error.
type Error struct {
	status      int
	userMessage string
	err         error
}

func (e *Error) UserMessage() string {
	return e.userMessage
}

// Status returns error http status code.
func (e *Error) Status() int {
	return e.status
}

func (e *Error) Error() string {
	return e.err.Error()
}

// errorToStatusError maps the errors of the controller operations to rest
// errors. Unknown entities are not found, an invalid caller is a bad request
// and any other failed precondition is a conflict with the current state.
func errorToStatusError(err error) StatusError {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr
	}
	switch {
	case controller.IsNotFound(err), errors.Is(err, controller.ErrNoActiveRound):
		return NewNotFoundError(err.Error(), err)
	case errors.Is(err, controller.ErrInvalidAddress):
		return NewBadRequestError(err)
	case controller.IsPreconditionError(err):
		return NewRestError(http.StatusConflict, err.Error(), err)
	default:
		return NewRestError(http.StatusInternalServerError, "internal server error", err)
	}
}
