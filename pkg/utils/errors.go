// Package utils provides shared helpers for the cryptidwatch API.
package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Common error values for reuse.
var (
	ErrBadRequest          = NewError(fiber.StatusBadRequest, "Invalid request")
	ErrUnauthorized        = NewError(fiber.StatusUnauthorized, "Unauthorized")
	ErrNotFound            = NewError(fiber.StatusNotFound, "Resource not found")
	ErrBadGateway          = NewError(fiber.StatusBadGateway, "Upstream dependency failed")
	ErrInternalServerError = NewError(fiber.StatusInternalServerError, "Internal server error")
)

// CustomError represents a structured error for the web app.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewError creates a new error with a status code, message, and optional details.
func NewError(code int, message string, details ...string) *CustomError {
	e := &CustomError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// Kind constructors matching the status-to-kind contract: 400 for
// validation and conflicts, 401 auth, 404 missing entity, 502 dependency,
// 500 internal.

// ValidationError reports malformed or out-of-range input.
func ValidationError(message string, details ...string) *CustomError {
	return NewError(fiber.StatusBadRequest, message, details...)
}

// ConflictError reports a uniqueness violation.
func ConflictError(message string, details ...string) *CustomError {
	return NewError(fiber.StatusBadRequest, message, details...)
}

// AuthError reports bad credentials or an invalid/expired token.
func AuthError(message string, details ...string) *CustomError {
	return NewError(fiber.StatusUnauthorized, message, details...)
}

// NotFoundError reports a missing entity.
func NotFoundError(message string, details ...string) *CustomError {
	return NewError(fiber.StatusNotFound, message, details...)
}

// DependencyError reports a failed call to an external collaborator.
func DependencyError(message string, details ...string) *CustomError {
	return NewError(fiber.StatusBadGateway, message, details...)
}

// InternalError reports an unexpected failure with a safe client message.
func InternalError(message string, details ...string) *CustomError {
	return NewError(fiber.StatusInternalServerError, message, details...)
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// WithCause attaches underlying details to the error.
func (e *CustomError) WithCause(err error) *CustomError {
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// WrapError wraps an existing error with a custom status and message.
func WrapError(err error, code int, message string) *CustomError {
	return NewError(code, message, err.Error())
}

// HandleError sends a standardized error response. Details are stripped for
// 5xx-class errors so raw internal strings never reach the client.
func HandleError(c *fiber.Ctx, err error) error {
	var appErr *CustomError

	if As(err, &appErr) {
		if appErr.Code >= 500 {
			appErr.Details = ""
		}
		return c.Status(appErr.Code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			},
		})
	}

	// Fallback for unhandled errors
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    fiber.StatusInternalServerError,
			"message": "Something went wrong",
		},
	})
}

// As is a helper to unwrap errors into *CustomError.
func As(err error, target interface{}) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*CustomError); ok {
		if t, ok := target.(**CustomError); ok {
			*t = e
			return true
		}
	}
	return false
}
