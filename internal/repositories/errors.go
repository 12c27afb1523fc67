package repositories

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint
// (username, email, or a follow edge). The constraint is the authority:
// under concurrent writers the store rejects the second one and the
// repository surfaces it as this error.
var ErrDuplicate = errors.New("duplicate record")
