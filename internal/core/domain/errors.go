package domain

import "fmt"

// Error kinds surfaced to callers. Specific errors wrap one of these so
// transports can classify them with errors.Is.
var (
	ErrNotFound           = newKind("resource not found")
	ErrPermissionDenied   = newKind("permission denied")
	ErrSelfActionDenied   = newKind("cannot perform this action on your own account")
	ErrProtectedAccount   = newKind("admin accounts cannot be modified")
	ErrConflict           = newKind("conflict")
	ErrInvalidCredentials = newKind("invalid credentials")
	ErrAccountDisabled    = newKind("account is disabled")
	ErrValidation         = newKind("validation failed")
	ErrCaptchaFailed      = newKind("invalid captcha")
)

var (
	ErrUserNotFound    = wrap(ErrNotFound, "user not found")
	ErrArticleNotFound = wrap(ErrNotFound, "article not found")

	ErrEmailTaken    = wrap(ErrConflict, "user with this email already exists")
	ErrUsernameTaken = wrap(ErrConflict, "username already taken")
	// ErrStaleUser is returned when a user changed between the permission
	// check and the conditional write.
	ErrStaleUser = wrap(ErrConflict, "user was modified concurrently, retry the request")
)

// Error is a domain error whose message is safe to show to clients.
type Error struct {
	msg  string
	kind *Error
}

func newKind(msg string) *Error { return &Error{msg: msg} }

func wrap(kind *Error, msg string) *Error { return &Error{msg: msg, kind: kind} }

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind, so errors.Is(ErrUserNotFound, ErrNotFound) holds.
func (e *Error) Unwrap() error {
	if e.kind == nil {
		return nil
	}
	return e.kind
}

// Validationf builds an ErrValidation-kind error with a readable message.
func Validationf(format string, args ...any) error {
	return wrap(ErrValidation, fmt.Sprintf(format, args...))
}
