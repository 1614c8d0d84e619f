package errors

import (
	"errors"
	"fmt"
)

var (
	ErrPackageNotFound = errors.New("package not found")

	ErrNoPassengers = errors.New("add at least one passenger")

	ErrPassportExpirationRequired = errors.New("passport expiration date is required")

	ErrSubmissionInProgress = errors.New("booking submission already in progress")
)

// RemoteError is a non-2xx answer from the booking email function.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("Email Error %d: %s", e.Status, e.Body)
}
