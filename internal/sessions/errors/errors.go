package errors

import "errors"

var (
	ErrNotFound = errors.New("coaching session not found")

	ErrInvalidID = errors.New("invalid coaching session ID format")

	ErrTimeConflict = errors.New("session time conflicts with an existing session")
)
