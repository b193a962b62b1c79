package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunningEntry(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	entry := NewRunningEntry("e1", "u1", "p1", "working", start)

	assert.True(t, entry.IsActive)
	assert.Nil(t, entry.EndTime)
	assert.Nil(t, entry.DurationMinutes)
	assert.True(t, entry.IsConsistent())
}

func TestNewClosedEntry(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	entry := NewClosedEntry("e1", "u1", "p1", "done", start, end)

	assert.False(t, entry.IsActive)
	require.NotNil(t, entry.EndTime)
	require.NotNil(t, entry.DurationMinutes)
	assert.Equal(t, 120, *entry.DurationMinutes)
	assert.True(t, entry.IsConsistent())
}

func TestTimeEntry_Close(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	entry := NewRunningEntry("e1", "u1", "p1", "working", start)

	closed := entry.Close(start.Add(45 * time.Minute))

	assert.False(t, closed.IsActive)
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 45, *closed.DurationMinutes)
	assert.True(t, closed.IsConsistent())

	// Close returns a copy; the original running entry is untouched.
	assert.True(t, entry.IsActive)
	assert.Nil(t, entry.EndTime)
}

func TestTimeEntry_IsConsistent(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	minutes := 60

	tests := []struct {
		name     string
		entry    TimeEntry
		expected bool
	}{
		{
			name:     "active entry without end or duration is consistent",
			entry:    TimeEntry{IsActive: true, StartTime: start},
			expected: true,
		},
		{
			name:     "active entry with an end time is inconsistent",
			entry:    TimeEntry{IsActive: true, StartTime: start, EndTime: &end},
			expected: false,
		},
		{
			name:     "closed entry with end and duration is consistent",
			entry:    TimeEntry{StartTime: start, EndTime: &end, DurationMinutes: &minutes},
			expected: true,
		},
		{
			name:     "closed entry missing duration is inconsistent",
			entry:    TimeEntry{StartTime: start, EndTime: &end},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.IsConsistent())
		})
	}
}

func TestTimeEntry_IsValid(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	tests := []struct {
		name     string
		entry    TimeEntry
		expected bool
	}{
		{
			name:     "running entry with owner, project, and start is valid",
			entry:    TimeEntry{UserID: "u1", ProjectID: "p1", StartTime: start, IsActive: true},
			expected: true,
		},
		{
			name:     "missing user id is invalid",
			entry:    TimeEntry{ProjectID: "p1", StartTime: start},
			expected: false,
		},
		{
			name:     "missing project id is invalid",
			entry:    TimeEntry{UserID: "u1", StartTime: start},
			expected: false,
		},
		{
			name:     "zero start time is invalid",
			entry:    TimeEntry{UserID: "u1", ProjectID: "p1"},
			expected: false,
		},
		{
			name:     "end before start is invalid",
			entry:    TimeEntry{UserID: "u1", ProjectID: "p1", StartTime: start, EndTime: &before},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.IsValid())
		})
	}
}
