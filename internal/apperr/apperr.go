// Package apperr defines the error taxonomy shared by the domain services.
// Handlers map kinds to HTTP status codes; services never report raw storage
// errors to callers.
package apperr

import "fmt"

type Kind int

const (
	// KindInternal is an unexpected failure, typically from the storage
	// layer. The message never exposes driver internals.
	KindInternal Kind = iota
	// KindValidation is a missing or malformed required field.
	KindValidation
	// KindConflict is a uniqueness violation or an illegal self-reference.
	KindConflict
	// KindPermission is a write outside the requester's role allowance.
	KindPermission
	// KindNotFound covers rows that do not exist or are not visible to the
	// requester. Private resources the requester has no relationship to
	// surface as not-found, never as permission errors.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a domain error with a machine-distinguishable kind and a
// user-facing message.
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

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Permission(msg string) *Error {
	return &Error{Kind: KindPermission, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Internal wraps an unexpected failure. The wrapped error is kept for logs
// but the message shown to callers stays generic.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}
