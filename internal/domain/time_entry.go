package domain

import (
	"time"
)

// TimeEntry represents a single tracked block of work in the domain model.
// This is a pure domain model without database-specific concerns.
type TimeEntry struct {
	ID              string
	UserID          string
	ProjectID       string
	Description     string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes *int
	IsActive        bool
}

// NewRunningEntry creates an active entry starting at the given time.
func NewRunningEntry(id, userID, projectID, description string, startTime time.Time) TimeEntry {
	return TimeEntry{
		ID:          id,
		UserID:      userID,
		ProjectID:   projectID,
		Description: description,
		StartTime:   startTime,
		IsActive:    true,
	}
}

// NewClosedEntry creates a completed entry with its duration already computed.
func NewClosedEntry(id, userID, projectID, description string, startTime, endTime time.Time) TimeEntry {
	minutes := MinutesBetween(startTime, endTime)
	return TimeEntry{
		ID:              id,
		UserID:          userID,
		ProjectID:       projectID,
		Description:     description,
		StartTime:       startTime,
		EndTime:         &endTime,
		DurationMinutes: &minutes,
	}
}

// Close stops the entry at the given time and computes its duration.
func (te TimeEntry) Close(endTime time.Time) TimeEntry {
	minutes := MinutesBetween(te.StartTime, endTime)
	te.EndTime = &endTime
	te.DurationMinutes = &minutes
	te.IsActive = false
	return te
}

// IsConsistent reports whether the active flag, end time, and duration agree:
// an active entry has neither an end time nor a duration, a closed entry has both.
func (te TimeEntry) IsConsistent() bool {
	if te.IsActive {
		return te.EndTime == nil && te.DurationMinutes == nil
	}
	return te.EndTime != nil && te.DurationMinutes != nil
}

// Duration returns the elapsed time of the entry.
// If the entry is still running, it returns the duration up to now.
func (te TimeEntry) Duration() time.Duration {
	if te.EndTime == nil {
		return time.Since(te.StartTime)
	}
	return te.EndTime.Sub(te.StartTime)
}

// IsValid checks if the time entry has valid data.
func (te TimeEntry) IsValid() bool {
	if te.UserID == "" || te.ProjectID == "" {
		return false
	}
	if te.StartTime.IsZero() {
		return false
	}
	if te.EndTime != nil && !te.EndTime.After(te.StartTime) {
		return false
	}
	return true
}
