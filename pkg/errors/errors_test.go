package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Deadlock event", "12345")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Deadlock event" {
		t.Errorf("expected resource 'Deadlock event', got %v", err.Details["resource"])
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("invalid request")

	if err.Code != CodeInvalidInput {
		t.Errorf("expected code %s, got %s", CodeInvalidInput, err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("resource already exists")

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestInternal(t *testing.T) {
	originalErr := errors.New("database error")
	err := Internal("internal error occurred", originalErr)

	if err.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, err.Code)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, err.HTTPStatus)
	}
	if err.Err != originalErr {
		t.Errorf("expected wrapped error to be originalErr")
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NotFoundWithID("Deadlock event", "1")
	regularErr := errors.New("regular error")

	if !IsAppError(appErr) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(regularErr) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFoundWithID("Deadlock event", "1")
	regularErr := errors.New("regular error")

	result := AsAppError(appErr)
	if result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	result = AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestStatusCode_ExposedForResponseWriting(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{Conflict("dup"), http.StatusConflict},
		{NotFoundWithID("Deadlock event", "1"), http.StatusNotFound},
		{Internal("boom", errors.New("x")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if tt.err.StatusCode() != tt.status {
			t.Errorf("StatusCode() for %s = %d, want %d", tt.err.Code, tt.err.StatusCode(), tt.status)
		}
	}
}
