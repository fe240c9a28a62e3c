package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	ErrCodeStartupConfig ErrorCode = "STARTUP_CONFIG_ERROR"
	ErrCodeInvalidAction ErrorCode = "INVALID_ACTION"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodePersistence   ErrorCode = "PERSISTENCE_ERROR"
	ErrCodeMail          ErrorCode = "MAIL_ERROR"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to the status reported to clients.
// Startup errors never reach a client; they map to 500 for completeness.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidAction, ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// HTTPStatus returns the client status for any error.
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// IsValidation checks if error is a validation failure
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

// IsInvalidAction checks if error is an unrecognized action
func IsInvalidAction(err error) bool {
	return CodeOf(err) == ErrCodeInvalidAction
}

// IsPersistence checks if error is a store failure
func IsPersistence(err error) bool {
	return CodeOf(err) == ErrCodePersistence
}

// IsMail checks if error is a mail failure
func IsMail(err error) bool {
	return CodeOf(err) == ErrCodeMail
}

// IsStartupConfig checks if error is a startup configuration failure
func IsStartupConfig(err error) bool {
	return CodeOf(err) == ErrCodeStartupConfig
}
