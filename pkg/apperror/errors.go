package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbiddenIP    = &AppError{Code: http.StatusForbidden, Message: "Unauthorized IP"}
	ErrBadSignature   = &AppError{Code: http.StatusForbidden, Message: "Invalid webhook signature"}
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrRateLimited    = &AppError{Code: http.StatusTooManyRequests, Message: "Rate limit exceeded. Try again later."}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
)

// NewValidationError creates a 400 error carrying the validator's reason
func NewValidationError(reason string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: reason,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// IsValidation reports whether the error maps to HTTP 400
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest
}

// GetAppError converts an error to AppError if possible. Unknown errors map
// to a generic 500; the original message never reaches the HTTP caller.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}
