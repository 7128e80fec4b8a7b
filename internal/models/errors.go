package models

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the wire shape of every API error: a human-readable
// message, the HTTP status it was served with, and optional per-field
// validation messages.
type ErrorResponse struct {
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Data    []string `json:"data"`
}

// AppError is a domain error carrying an HTTP status and optional validation
// detail. A zero Status means the error has no explicit code and is served as
// a generic 500.
type AppError struct {
	Message string
	Status  int
	Data    []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a 422 error aggregating one message per
// violated rule.
func NewValidationError(messages ...string) *AppError {
	return &AppError{
		Message: "Invalid input.",
		Status:  fiber.StatusUnprocessableEntity,
		Data:    messages,
	}
}

// NewUnauthenticatedError returns a 401 error.
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  fiber.StatusUnauthorized,
	}
}

// NewForbiddenError returns a 403 error.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  fiber.StatusForbidden,
	}
}

// NewNotFoundError returns a 404 error.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  fiber.StatusNotFound,
	}
}

// NewConflictError returns an error with no explicit status; the boundary
// serves it as a generic 500 while preserving the message.
func NewConflictError(message string) *AppError {
	return &AppError{Message: message}
}

// NewInternalError wraps an unexpected collaborator failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Message: "An error occurred.",
		Status:  fiber.StatusInternalServerError,
		Err:     err,
	}
}

// StatusOf returns the HTTP status an error maps to, defaulting to 500 for
// errors without an explicit code.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return fiber.StatusInternalServerError
}

// RespondWithError writes the standardized error response. Internals (wrapped
// errors, stack traces) are logged, never sent to the caller.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	resp := ErrorResponse{
		Message: "An error occurred.",
		Status:  status,
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Data = appErr.Data
		if appErr.Err != nil {
			slog.ErrorContext(c.UserContext(), "operation failed",
				slog.Int("status", status),
				slog.String("error", appErr.Err.Error()),
			)
		}
	} else {
		slog.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("error", err.Error()),
		)
	}

	return c.Status(status).JSON(resp)
}
