// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates a failed sign-in. Deliberately does not
	// distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already taken")

	// ErrUnauthenticated indicates no valid identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAccessDenied indicates the identity may not perform the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidToken indicates a malformed, tampered or expired token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrAlreadyExists indicates a unique constraint violation on save.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnknownField indicates a patch entry that names no patchable task field.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidEnumValue indicates a value that matches no enum member.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrTypeMismatch indicates a patch value of an incompatible type.
	ErrTypeMismatch = errors.New("type mismatch")
)
