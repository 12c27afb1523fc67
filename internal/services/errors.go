package services

import "errors"

// Error taxonomy surfaced to handlers. Validation and not-found failures are
// distinguished from each other; authentication failures are deliberately
// uniform so callers cannot tell an unknown account from a wrong password.
var (
	// Authentication failures.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	// Not-found failures.
	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")

	// Validation failures.
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrEmptyPostBody = errors.New("post body must not be empty")
	ErrPostTooLong   = errors.New("post body exceeds the length limit")
)
