package storage

import "errors"

var (
	// ErrProgressNotFound is returned when no progress row exists for a
	// (user, exercise) pair.
	ErrProgressNotFound = errors.New("progress not found")

	// ErrProfileNotFound is returned when a user has no profile row yet.
	ErrProfileNotFound = errors.New("profile not found")
)
