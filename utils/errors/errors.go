package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput       = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrNotAuthenticated   = NewAPIError("NOT_AUTHENTICATED", "Authentication required", http.StatusUnauthorized)
	ErrNotFound           = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrInternal           = NewAPIError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrUsernameTaken      = NewAPIError("USERNAME_TAKEN", "Username is already taken", http.StatusConflict)
	ErrInvalidCredentials = NewAPIError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	ErrSelfRequest        = NewAPIError("SELF_REQUEST", "Cannot send a friend request to yourself", http.StatusBadRequest)
)

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}

// Storage wraps an underlying store failure. Multi-record mutations that
// fail partway are surfaced through this as well; callers treat them as
// retryable.
func Storage(err error, message string) *APIError {
	return Wrap(err, "STORAGE_ERROR", message, http.StatusBadGateway)
}
