package domain

import (
	"timesheet/internal/repository/sqlite"
)

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
func (m *TimeEntryMapper) ToDatabase(entry TimeEntry) sqlite.TimeEntry {
	return sqlite.TimeEntry{
		ID:              entry.ID,
		UserID:          entry.UserID,
		ProjectID:       entry.ProjectID,
		Description:     entry.Description,
		StartTime:       entry.StartTime,
		EndTime:         entry.EndTime,
		DurationMinutes: entry.DurationMinutes,
		IsActive:        entry.IsActive,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(row sqlite.TimeEntry) TimeEntry {
	return TimeEntry{
		ID:              row.ID,
		UserID:          row.UserID,
		ProjectID:       row.ProjectID,
		Description:     row.Description,
		StartTime:       row.StartTime,
		EndTime:         row.EndTime,
		DurationMinutes: row.DurationMinutes,
		IsActive:        row.IsActive,
	}
}

// FromDatabaseSlice converts a slice of database TimeEntries to domain TimeEntries.
func (m *TimeEntryMapper) FromDatabaseSlice(rows []*sqlite.TimeEntry) []*TimeEntry {
	entries := make([]*TimeEntry, len(rows))
	for i, row := range rows {
		entry := m.FromDatabase(*row)
		entries[i] = &entry
	}
	return entries
}

// ProjectMapper handles conversion between domain and database Project models.
type ProjectMapper struct{}

// FromDatabase converts a database Project to a domain Project.
func (m *ProjectMapper) FromDatabase(row sqlite.Project) Project {
	return Project{
		ID:       row.ID,
		Name:     row.Name,
		ClientID: row.ClientID,
	}
}

// ToDatabase converts a domain Project to a database Project.
func (m *ProjectMapper) ToDatabase(project Project) sqlite.Project {
	return sqlite.Project{
		ID:       project.ID,
		Name:     project.Name,
		ClientID: project.ClientID,
	}
}

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// FromDatabase converts a database User to a domain User.
func (m *UserMapper) FromDatabase(row sqlite.User) User {
	return User{
		ID:        row.ID,
		Name:      row.Name,
		Role:      row.Role,
		ManagerID: row.ManagerID,
	}
}

// Mapper aggregates all model mappers.
type Mapper struct {
	TimeEntry *TimeEntryMapper
	Project   *ProjectMapper
	User      *UserMapper
}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{
		TimeEntry: &TimeEntryMapper{},
		Project:   &ProjectMapper{},
		User:      &UserMapper{},
	}
}
