package common

import (
	"errors"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithDetails returns a copy of the error carrying the provided details.
func (e *AppError) WithDetails(details any) *AppError {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Details = details
	return &cp
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

func NotFound(message string, err error) *AppError {
	return NewAppError("NOT_FOUND", message, http.StatusNotFound, err)
}

func BadRequest(message string, err error) *AppError {
	return NewAppError("VALIDATION_FAILED", message, http.StatusBadRequest, err)
}

func Unauthorized() *AppError {
	return NewAppError("UNAUTHORIZED", "authentication required", http.StatusUnauthorized, nil)
}

// ErrorMapper translates domain errors into AppErrors; it returns nil for unknown errors.
type ErrorMapper func(error) *AppError

// WriteError renders err using the first mapper that recognises it.
// Unrecognised errors become a 500 without leaking the underlying message.
func WriteError(w http.ResponseWriter, err error, mappers ...ErrorMapper) {
	if err == nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		for _, m := range mappers {
			if m == nil {
				continue
			}
			if mapped := m(err); mapped != nil {
				appErr = mapped
				break
			}
		}
	}
	if appErr == nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusBadRequest
	}
	code := appErr.Code
	if code == "" {
		code = "BAD_REQUEST"
	}
	JSONError(w, status, code, appErr.Message, appErr.Details)
}
