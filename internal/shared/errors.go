package shared

import "errors"

var (
	// ErrNotFound indicates the resource is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure, identical for unknown
	// email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrTokenMissing occurs when no credential accompanies the request.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid occurs when a token is malformed or its signature does not match.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired occurs when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
