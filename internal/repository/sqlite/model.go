package sqlite

import "time"

// TimeEntry represents a time entry row as stored in the database.
type TimeEntry struct {
	ID              string
	UserID          string
	ProjectID       string
	Description     string
	StartTime       time.Time
	EndTime         *time.Time // Using pointer to allow NULL values
	DurationMinutes *int       // NULL while the entry is running
	IsActive        bool
}

// Project represents a project row.
type Project struct {
	ID       string
	Name     string
	ClientID string
}

// Client represents a client row.
type Client struct {
	ID   string
	Name string
}

// User represents a user row. Role holds the stored role name used as
// fallback when no claim role is asserted.
type User struct {
	ID        string
	Name      string
	Role      string
	ManagerID *string
}
