package identity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrTooManyAttempts    = errors.New("too many attempts, try again later")
	ErrInvalidCredential  = errors.New("invalid federated credential")
	ErrNotConfigured      = errors.New("identity provider API key is not configured")
)

// ProviderError is a rejection reported by the identity service that does not
// map onto one of the sentinels above.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error %d: %s", e.Status, e.Message)
}

// providerErrors maps Identity Toolkit error codes. Codes can carry a suffix
// such as "TOO_MANY_ATTEMPTS_TRY_LATER : ...", so lookups use the prefix.
var providerErrors = map[string]error{
	"EMAIL_NOT_FOUND":             ErrInvalidCredentials,
	"INVALID_PASSWORD":            ErrInvalidCredentials,
	"INVALID_LOGIN_CREDENTIALS":   ErrInvalidCredentials,
	"INVALID_EMAIL":               ErrInvalidCredentials,
	"MISSING_PASSWORD":            ErrInvalidCredentials,
	"USER_DISABLED":               ErrUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER": ErrTooManyAttempts,
	"INVALID_IDP_RESPONSE":        ErrInvalidCredential,
	"INVALID_ID_TOKEN":            ErrInvalidCredential,
}
