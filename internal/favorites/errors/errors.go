package errors

import "errors"

var (
	ErrInvalidPackageID = errors.New("package id must be numeric")

	ErrAlreadyFavorited = errors.New("package is already a favorite")
)
