package apperror

import (
	"context"
	"errors"
	"net/http"
)

// AppError is an error with the HTTP status it maps to
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError names one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// ErrSalesUserUnmapped is returned when an invoice has no sales user id or
// the id references no user. The commission ledger is left untouched.
var ErrSalesUserUnmapped = &AppError{Code: http.StatusUnprocessableEntity, Message: "Sales user not mapped to a valid login user"}

// ErrIdempotencyKeyReused is returned when a live Idempotency-Key is sent
// to a different endpoint than the one it was first used on.
var ErrIdempotencyKeyReused = &AppError{Code: http.StatusUnprocessableEntity, Message: "Idempotency-Key already used for a different request"}

// NewValidationError reports every rejected field at once
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts err to an AppError. Cancelled or timed out contexts
// map to 503; anything else unknown is a 500 carrying the message verbatim.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    http.StatusServiceUnavailable,
			Message: err.Error(),
		}
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
