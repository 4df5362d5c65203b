package errors

import "fmt"

// ErrorCode represents an Inlay error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrStorageFailure ErrorCode = "STORAGE_FAILURE" // 500, backend failure during a lookup
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// InlayError represents a structured error with code, status, and details.
type InlayError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *InlayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *InlayError {
	return &InlayError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing record or file.
func NewNotFound(identifier string) *InlayError {
	return &InlayError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewStorageFailure wraps a backend error raised by the storage layer.
// Extraction treats this as fatal for the whole call.
func NewStorageFailure(err error) *InlayError {
	msg := "storage failure"
	if err != nil {
		msg = err.Error()
	}
	return &InlayError{
		Code:    ErrStorageFailure,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *InlayError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &InlayError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an InlayError with the given code.
func Is(err error, code ErrorCode) bool {
	if iErr, ok := err.(*InlayError); ok {
		return iErr.Code == code
	}
	return false
}
