package backend

import (
	"context"
	"errors"
)

const (
	CodeNotFound     = "not_found"
	CodeMultipleRows = "multiple_rows"
	CodeDecode       = "decode_failed"
	CodeTimeout      = "timeout"
	CodeCanceled     = "canceled"
	CodeUnexpected   = "unexpected"
)

var ErrNotFound = errors.New("no rows returned")

// Error is a backend-reported failure. Message is safe to show to users.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(table string) *Error {
	return &Error{Code: CodeNotFound, Message: "no " + table + " row matched", Err: ErrNotFound}
}

// AsError converts any error into an *Error, keeping backend errors as they
// are and classifying context failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeTimeout, Message: "backend request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeCanceled, Message: "backend request canceled", Err: err}
	case errors.Is(err, ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error(), Err: err}
	default:
		return &Error{Code: CodeUnexpected, Message: err.Error(), Err: err}
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
