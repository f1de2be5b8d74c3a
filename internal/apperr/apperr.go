package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Store failures and other
// unexpected errors carry no Kind and surface as internal errors.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindInvalidState  Kind = "invalid_state"
	KindLimitExceeded Kind = "limit_exceeded"
	KindExpired       Kind = "expired"
)

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

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity by id or unique field.
func NotFound(entity, ref string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %q not found", entity, ref)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func LimitExceeded(format string, args ...interface{}) *Error {
	return &Error{Kind: KindLimitExceeded, Message: fmt.Sprintf(format, args...)}
}

func Expired(format string, args ...interface{}) *Error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, unwrapping as needed.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
