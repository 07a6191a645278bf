package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type surfaced by the API.
type ErrorCode string

const (
	// ErrCodeInvalidCredentials indicates a failed username/password check.
	ErrCodeInvalidCredentials ErrorCode = "AUTH_INVALID_CREDENTIALS"
	// ErrCodeUnauthenticated indicates a request without a valid session.
	ErrCodeUnauthenticated ErrorCode = "AUTH_UNAUTHENTICATED"
	// ErrCodeDataMalformed indicates a malformed or incomplete dataset document.
	ErrCodeDataMalformed ErrorCode = "DATA_MALFORMED"
	// ErrCodeValidationFailed indicates invalid input parameters.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// APIError represents a structured error scoped to a single request.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials() *APIError {
	return &APIError{Code: ErrCodeInvalidCredentials, Message: "invalid username or password"}
}

// Unauthenticated creates an unauthenticated error.
func Unauthenticated(msg string) *APIError {
	return &APIError{Code: ErrCodeUnauthenticated, Message: msg}
}

// DataMalformed creates a malformed dataset error.
func DataMalformed(msg string, cause error) *APIError {
	return &APIError{Code: ErrCodeDataMalformed, Message: msg, Cause: cause}
}

// ValidationFailed creates a validation error.
func ValidationFailed(msg string) *APIError {
	return &APIError{Code: ErrCodeValidationFailed, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *APIError {
	return &APIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an APIError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Code
	}
	return defaultCode
}
