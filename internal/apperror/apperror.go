// Package apperror defines the error taxonomy surfaced to API clients.
package apperror

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthorized
	KindCredentials
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindCredentials:
		return "credentials"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// Error is an error with a client-facing message and a kind that decides the
// HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to an HTTP status code. Not-found and bad credentials
// are reported as 400.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindCredentials, KindNotFound:
		return 400
	case KindUnauthorized:
		return 401
	default:
		return 500
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func InvalidCredentials() *Error {
	return &Error{Kind: KindCredentials, Message: "Username or password might be wrong! try again!"}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unexpected wraps err with a stack trace unless it already carries one.
func Unexpected(err error) *Error {
	var st interface{ StackTrace() pkgerrors.StackTrace }
	if !errors.As(err, &st) {
		err = pkgerrors.WithStack(err)
	}
	return &Error{Kind: KindUnexpected, Message: "Something went wrong!", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnexpected.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// Stack renders the first stack trace recorded in err's chain, or "" when
// there is none.
func Stack(err error) string {
	var st interface{ StackTrace() pkgerrors.StackTrace }
	if !errors.As(err, &st) {
		return ""
	}
	return fmt.Sprintf("%+v", st)
}
