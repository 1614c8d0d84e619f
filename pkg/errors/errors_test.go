package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "package not found"},
			expected: "NOT_FOUND: package not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeRemote,
				Message: "Email Error 500: boom",
				Err:     errors.New("status 500"),
			},
			expected: "REMOTE_ERROR: Email Error 500: boom (caused by: status 500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should find the original error")
	}
}

func TestAppError_StatusCodeDefaultsToInternal(t *testing.T) {
	err := &AppError{Code: CodeInternal}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusInternalServerError)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Package"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("Invalid code"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("dup"), CodeConflict, http.StatusConflict},
		{"internal", Internal("oops", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Booking function"), CodeUnavailable, http.StatusServiceUnavailable},
		{"remote", Remote("Email Error 502: bad", nil), CodeRemote, http.StatusBadGateway},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Package", "42")

	if err.Message != "Package not found" {
		t.Errorf("expected message 'Package not found', got %s", err.Message)
	}
	if err.Details["id"] != "42" {
		t.Errorf("expected id '42', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Package" {
		t.Errorf("expected resource 'Package', got %v", err.Details["resource"])
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NotFound("Session")
	wrapped := fmt.Errorf("lookup: %w", appErr)

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}
	if IsAppError(errors.New("regular error")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Session")
	if AsAppError(fmt.Errorf("ctx: %w", appErr)) != appErr {
		t.Errorf("AsAppError() should return the wrapped AppError")
	}

	regularErr := errors.New("regular error")
	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	var got ErrorResponse
	if err := json.Unmarshal(NotFoundWithID("Package", "42").ToJSON(), &got); err != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", err)
	}
	if got.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, got.Code)
	}
	if got.Details["id"] != "42" {
		t.Errorf("expected id detail, got %v", got.Details)
	}
}
