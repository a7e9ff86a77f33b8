package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can pick a status code and the
// frontend can render a targeted message.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthorization
)

// Error carries a kind alongside a human-readable message and an optional
// wrapped cause.
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

// Validation reports malformed input, a role mismatch or a missing field.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Conflict reports a taken slot, a duplicate review or a closed
// cancellation window.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound reports an unknown professional, appointment or review id.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Authorization reports an operation the requesting role may not perform.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// Unexpected wraps a store or infrastructure failure.
func Unexpected(message string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindUnexpected for
// errors that did not originate in this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
