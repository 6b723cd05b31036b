package core

import (
	"errors"
	"fmt"

	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
)

// HandlerError represents an error that occurred during handler execution
type HandlerError struct {
	// The underlying error
	Err error

	// User-friendly message to display
	UserMessage string

	// HTTP-like status code for categorization
	Code int
}

// Error implements the error interface
func (e *HandlerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrorCodeBadRequest = 400
	ErrorCodeForbidden  = 403
	ErrorCodeNotFound   = 404
	ErrorCodeConflict   = 409
	ErrorCodeInternal   = 500
)

// NewUserError creates an error with a user-friendly message
func NewUserError(message string, code int) *HandlerError {
	return &HandlerError{
		UserMessage: message,
		Code:        code,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *HandlerError {
	return NewUserError(fmt.Sprintf("%s not found", resource), ErrorCodeNotFound)
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *HandlerError {
	return NewUserError(message, ErrorCodeForbidden)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *HandlerError {
	return NewUserError(message, ErrorCodeBadRequest)
}

// FromError converts a service error into a HandlerError with a message
// that is safe to show to users
func FromError(err error) *HandlerError {
	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr
	}

	out := &HandlerError{Err: err}
	switch dnderr.GetCode(err) {
	case dnderr.CodeNotFound:
		out.Code = ErrorCodeNotFound
		out.UserMessage = "That test is no longer open."
	case dnderr.CodeInvalidArgument:
		out.Code = ErrorCodeBadRequest
		out.UserMessage = "That input was not accepted."
	case dnderr.CodeFailedPrecondition, dnderr.CodeAborted, dnderr.CodeAlreadyExists:
		out.Code = ErrorCodeConflict
		out.UserMessage = "That test has already been resolved."
	default:
		out.Code = ErrorCodeInternal
		out.UserMessage = "An error occurred while processing your request."
	}
	return out
}
