package repository

import "errors"

var (
	// ErrConflict is returned when an event with the same ID already exists
	ErrConflict = errors.New("conflict: event already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
