package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates the email unique constraint was violated.
	ErrDuplicateEmail = errors.New("repository: duplicate email")
)
