package cli

import (
	"fmt"

	"timesheet/internal/apperrors"
	"timesheet/internal/logging"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle adds operation context while keeping the structured error in the
// chain so callers can still match on its type. System errors are logged;
// caller errors (validation, not found, conflict, forbidden) are not.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if apperrors.ShouldLogError(err) {
		logging.Debugf("%s failed: %v\n", operation, err)
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return fmt.Errorf("%s", apperrors.GetUserMessage(err))
	}
	return err
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound)
}

// IsConflictError checks if an error is a conflict error
func (eh *ErrorHandler) IsConflictError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypeConflict)
}

// IsForbiddenError checks if an error is an authorization denial
func (eh *ErrorHandler) IsForbiddenError(err error) bool {
	return apperrors.IsErrorType(err, apperrors.ErrorTypeForbidden)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return apperrors.GetErrorCode(err)
}
