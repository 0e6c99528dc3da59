package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Creation(t *testing.T) {
	cause := errors.New("exit status 100")

	err := NewInstallError("apt-get install failed", cause)

	assert.Equal(t, ErrorTypeInstall, err.Type)
	assert.Equal(t, "apt-get install failed", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.NotNil(t, err.Context)
}

func TestDomainError_WithContext(t *testing.T) {
	err := NewHookToolError("status-set failed", nil).
		WithContext("tool", "status-set").
		WithContext("exit_code", 2)

	assert.Equal(t, "status-set", err.Context["tool"])
	assert.Equal(t, 2, err.Context["exit_code"])
}

func TestDomainError_ErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		error    *DomainError
		expected string
	}{
		{
			name:     "error without cause",
			error:    NewValidationError("port out of range", nil),
			expected: "validation: port out of range",
		},
		{
			name:     "error with cause",
			error:    NewProcessError("reload nginx.service", errors.New("job failed")),
			expected: "process: reload nginx.service: job failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.error.Error())
		})
	}
}

func TestDomainError_WrappedTypeChecking(t *testing.T) {
	processErr := NewProcessError("start nginx", nil)
	wrapped := fmt.Errorf("config-changed: %w", processErr)

	assert.True(t, IsProcessError(wrapped))
	assert.False(t, IsInstallError(wrapped))
	assert.True(t, errors.Is(wrapped, &DomainError{Type: ErrorTypeProcess}))
	assert.False(t, IsValidationError(errors.New("plain")))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("GET failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAllErrorTypes(t *testing.T) {
	errorTypes := []struct {
		name        string
		constructor func(string, error) *DomainError
		checker     func(error) bool
		errorType   ErrorType
	}{
		{"validation", NewValidationError, IsValidationError, ErrorTypeValidation},
		{"not_found", NewNotFoundError, IsNotFoundError, ErrorTypeNotFound},
		{"process", NewProcessError, IsProcessError, ErrorTypeProcess},
		{"install", NewInstallError, IsInstallError, ErrorTypeInstall},
		{"hook_tool", NewHookToolError, IsHookToolError, ErrorTypeHookTool},
		{"io", NewIOError, IsIOError, ErrorTypeIO},
		{"network", NewNetworkError, IsNetworkError, ErrorTypeNetwork},
		{"internal", NewInternalError, IsInternalError, ErrorTypeInternal},
	}

	for _, tt := range errorTypes {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constructor("test message", nil)
			assert.Equal(t, tt.errorType, err.Type)
			assert.True(t, tt.checker(err))
		})
	}
}
