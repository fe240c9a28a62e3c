package services

import (
	apperrors "contactform/pkg/errors"
)

// Client-facing error messages.
const (
	msgInvalidAction   = "Invalid action"
	msgFieldsRequired  = "All fields required"
	msgInvalidEmail    = "Invalid email"
	msgSaveFailed      = "Failed to save contact"
	msgLoadFailed      = "Failed to load today's contacts"
	msgInvalidBody     = "Invalid request body"
	msgNotifyFailed    = "Message saved but notification email could not be sent"
	msgDigestMailFails = "Daily digest could not be sent"
)

// ErrInvalidAction creates the error for an unrecognized action/method pair
func ErrInvalidAction() *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeInvalidAction, msgInvalidAction)
}

// ErrInvalidBody creates the error for a request body that cannot be decoded
func ErrInvalidBody(err error) *apperrors.AppError {
	return apperrors.Wrap(apperrors.ErrCodeValidation, msgInvalidBody, err)
}

func validationError(message string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeValidation, message)
}

func persistenceError(message string, err error) *apperrors.AppError {
	return apperrors.Wrap(apperrors.ErrCodePersistence, message, err)
}

func mailError(message string, err error) *apperrors.AppError {
	return apperrors.Wrap(apperrors.ErrCodeMail, message+": "+err.Error(), err)
}
