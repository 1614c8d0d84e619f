package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "doctortravel/pkg/errors"
)

const (
	KindLocal         = "local"
	KindInternational = "international"
)

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is empty")
		case errors.As(err, &maxBytesErr):
			return apperrors.New(apperrors.CodeBadRequest, "request body too large", http.StatusRequestEntityTooLarge)
		default:
			return apperrors.InvalidInput("invalid JSON: " + err.Error())
		}
	}
	return nil
}

// ParsePackageKind turns the route segment used for favorites into the
// isLocal discriminator.
func ParsePackageKind(kind string) (bool, error) {
	switch strings.ToLower(kind) {
	case KindLocal:
		return true, nil
	case KindInternational:
		return false, nil
	default:
		return false, apperrors.InvalidInput("package kind must be 'local' or 'international': " + kind)
	}
}

func PackageKind(isLocal bool) string {
	if isLocal {
		return KindLocal
	}
	return KindInternational
}

func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
