// Package apperr defines the error taxonomy shared by the service and HTTP layers.
// Every failure crossing a component boundary is one of these kinds; the HTTP
// layer maps kinds to status codes and never inspects messages.
package apperr

import "errors"

// Kind classifies an error for the caller.
type Kind int

const (
	// KindValidation marks malformed or missing input. Never worth retrying as-is.
	KindValidation Kind = iota + 1
	// KindAuth marks a credential or session mismatch. Recoverable by re-authenticating.
	KindAuth
	// KindConflict marks a uniqueness violation.
	KindConflict
	// KindNotFound marks a lookup miss on a client-supplied key.
	KindNotFound
	// KindStore marks an underlying persistence failure. The detail shown to
	// clients must stay generic.
	KindStore
)

// Error carries a kind plus a client-safe detail message.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func Validation(detail string) *Error { return &Error{Kind: KindValidation, Detail: detail} }
func Auth(detail string) *Error       { return &Error{Kind: KindAuth, Detail: detail} }
func Conflict(detail string) *Error   { return &Error{Kind: KindConflict, Detail: detail} }
func NotFound(detail string) *Error   { return &Error{Kind: KindNotFound, Detail: detail} }
func Store(detail string) *Error      { return &Error{Kind: KindStore, Detail: detail} }

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
