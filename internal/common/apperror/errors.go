package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a domain error so the HTTP boundary can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAccountInactive
	KindAuthorization
	KindNotFound
	KindConflict
	KindStaleRights
)

// InactiveAccountMessage is shown to deactivated users on login.
const InactiveAccountMessage = "You are no longer part of this organization."

// Error is the single error type crossing service boundaries. Handlers never
// inspect messages, only the Kind.
type Error struct {
	Kind    Kind
	Message string
	Missing []string // stale rights: module ids that no longer resolve
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

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func AccountInactive() *Error {
	return &Error{Kind: KindAccountInactive, Message: InactiveAccountMessage}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// StaleRights reports a rights update referencing modules that no longer
// exist; the client re-fetches the catalog and retries.
func StaleRights(missing []string) *Error {
	return &Error{
		Kind:    KindStaleRights,
		Message: fmt.Sprintf("rights reference unknown or deleted modules: %s", strings.Join(missing, ", ")),
		Missing: missing,
	}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// AsError extracts an *Error, wrapping unknown errors as internal.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
