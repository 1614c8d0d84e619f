package errors

import "errors"

var (
	ErrNotFound = errors.New("package not found")

	ErrInvalidID = errors.New("invalid package ID format")
)
