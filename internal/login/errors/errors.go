package errors

import "errors"

var (
	ErrMissingFields = errors.New("please enter both email and password")

	ErrEmailNotVerified = errors.New("please verify your email before logging in")

	ErrNothingToVerify = errors.New("no sign-in is waiting for a code")

	ErrCodeNotFound = errors.New("no 2FA code found, please login again")

	ErrInvalidCode = errors.New("the code you entered is incorrect")

	ErrCodeExpired = errors.New("the code has expired, please login again")

	ErrCodeThrottled = errors.New("a code was requested too recently, please wait")
)
