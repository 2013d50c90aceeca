package services

import "fmt"

// ErrorKind is the stable classification a domain error carries across the
// component boundary. Raw persistence errors never leave the services layer;
// duplicate-key violations are translated to KindConflict.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindExpired          ErrorKind = "expired"
	KindRateLimited      ErrorKind = "rate_limited"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errValidation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func errNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func errPermissionDenied(format string, args ...any) *Error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func errConflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func errExpired(format string, args ...any) *Error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

func errRateLimited(format string, args ...any) *Error {
	return &Error{Kind: KindRateLimited, Message: fmt.Sprintf(format, args...)}
}

func errUnauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}
