package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/apperrors"
)

func TestEntryValidator_ValidateStart(t *testing.T) {
	validator := NewEntryValidator()

	tests := []struct {
		name        string
		userID      string
		projectID   string
		description string
		wantErr     string
	}{
		{
			name:        "valid parameters",
			userID:      "u1",
			projectID:   "p1",
			description: "working on the site",
		},
		{
			name:      "empty user id",
			userID:    "",
			projectID: "p1",
			wantErr:   "user id cannot be empty",
		},
		{
			name:      "whitespace user id",
			userID:    "   ",
			projectID: "p1",
			wantErr:   "user id cannot be empty",
		},
		{
			name:      "empty project id",
			userID:    "u1",
			projectID: "",
			wantErr:   "project id cannot be empty",
		},
		{
			name:        "description too long",
			userID:      "u1",
			projectID:   "p1",
			description: strings.Repeat("x", 501),
			wantErr:     "description is too long",
		},
		{
			name:        "empty description is fine",
			userID:      "u1",
			projectID:   "p1",
			description: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStart(tt.userID, tt.projectID, tt.description)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEntryValidator_ValidateManualEntry(t *testing.T) {
	validator := NewEntryValidator()
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startTime time.Time
		endTime   time.Time
		wantErr   string
	}{
		{
			name:      "valid range",
			startTime: start,
			endTime:   start.Add(time.Hour),
		},
		{
			name:    "zero start time",
			endTime: start,
			wantErr: "start time is required",
		},
		{
			name:      "end before start",
			startTime: start,
			endTime:   start.Add(-time.Minute),
			wantErr:   "end time must be after start time",
		},
		{
			name:      "end equals start",
			startTime: start,
			endTime:   start,
			wantErr:   "end time must be after start time",
		},
		{
			name:      "start too far in the past",
			startTime: time.Date(1999, 1, 1, 9, 0, 0, 0, time.UTC),
			endTime:   time.Date(1999, 1, 1, 10, 0, 0, 0, time.UTC),
			wantErr:   "start time is out of range",
		},
		{
			name:      "start too far in the future",
			startTime: time.Now().AddDate(2, 0, 0),
			endTime:   time.Now().AddDate(2, 0, 1),
			wantErr:   "start time is out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateManualEntry("u1", "p1", tt.startTime, tt.endTime)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEntryValidator_NormalizeDescription(t *testing.T) {
	validator := NewEntryValidator()

	assert.Equal(t, "feature work", validator.NormalizeDescription("  feature work "))
	assert.Equal(t, "", validator.NormalizeDescription("   "))
}

func TestValidator_IsValidTimeRange(t *testing.T) {
	validator := NewValidator()
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	after := start.Add(time.Minute)
	before := start.Add(-time.Minute)

	assert.True(t, validator.IsValidTimeRange(start, nil))
	assert.True(t, validator.IsValidTimeRange(start, &after))
	assert.False(t, validator.IsValidTimeRange(start, &before))
	assert.False(t, validator.IsValidTimeRange(start, &start))
}
