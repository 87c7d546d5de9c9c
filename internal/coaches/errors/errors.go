package errors

import "errors"

var (
	ErrNotFound = errors.New("coach profile not found")

	ErrInvalidID = errors.New("invalid coach profile ID format")

	ErrSlugTaken = errors.New("coach profile slug already in use")
)
