package repository

import "errors"

// Common store errors, shared by every backend.
var (
	// ErrTaskNotFound is returned when no task has the requested id
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound is returned when no user has the requested id
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when a write would break email uniqueness
	ErrDuplicateEmail = errors.New("email already exists")
)
