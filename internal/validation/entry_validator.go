package validation

import (
	"time"

	"timesheet/internal/apperrors"
	"timesheet/internal/config"
)

// EntryValidator provides validation for time entry operations
type EntryValidator struct {
	validator *Validator
}

// NewEntryValidator creates a new entry validator instance
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{validator: NewValidator()}
}

// NewEntryValidatorWithConfig creates a new entry validator with configuration
func NewEntryValidatorWithConfig(cfg *config.Config) *EntryValidator {
	return &EntryValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateStart validates the parameters for starting a timer
func (ev *EntryValidator) ValidateStart(userID, projectID, description string) error {
	if !ev.validator.IsNonEmptyString(userID) {
		return apperrors.NewValidationError("user id cannot be empty", nil)
	}
	if !ev.validator.IsNonEmptyString(projectID) {
		return apperrors.NewValidationError("project id cannot be empty", nil)
	}
	if !ev.validator.IsValidDescriptionLength(description) {
		return apperrors.NewValidationError("description is too long", nil)
	}
	return nil
}

// ValidateManualEntry validates the parameters for a manually added entry.
// The end time must be strictly after the start time and the start must fall
// within the accepted date range.
func (ev *EntryValidator) ValidateManualEntry(userID, projectID string, startTime, endTime time.Time) error {
	if err := ev.ValidateStart(userID, projectID, ""); err != nil {
		return err
	}
	if startTime.IsZero() {
		return apperrors.NewValidationError("start time is required", nil)
	}
	if !ev.validator.IsReasonableDate(startTime) {
		return apperrors.NewValidationError("start time is out of range", nil)
	}
	if !ev.validator.IsValidTimeRange(startTime, &endTime) {
		return apperrors.NewValidationError("end time must be after start time", nil)
	}
	return nil
}

// NormalizeDescription trims surrounding whitespace before storage.
func (ev *EntryValidator) NormalizeDescription(description string) string {
	return ev.validator.TrimAndValidateString(description)
}
