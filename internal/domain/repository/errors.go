package repository

import "errors"

// Storage-level sentinel errors. The application layer translates these into
// its own taxonomy; handlers never see raw driver errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)
