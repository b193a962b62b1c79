package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTimeEntry scans a single time entry from a database row
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var startTime string
	var endTime sql.NullString
	var duration sql.NullInt64
	var isActive int

	err := scanner.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ProjectID,
		&entry.Description,
		&startTime,
		&endTime,
		&duration,
		&isActive,
	)
	if err != nil {
		return nil, err
	}

	entry.StartTime, err = ParseTimeFromDB(startTime)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		parsed, err := ParseTimeFromDB(endTime.String)
		if err != nil {
			return nil, err
		}
		entry.EndTime = &parsed
	}
	if duration.Valid {
		minutes := int(duration.Int64)
		entry.DurationMinutes = &minutes
	}
	entry.IsActive = isActive != 0

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	var entries []*TimeEntry
	for rows.Next() {
		entry, err := ScanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ScanProject scans a single project from a database row
func ScanProject(scanner Scanner) (*Project, error) {
	project := &Project{}
	var clientID sql.NullString
	err := scanner.Scan(&project.ID, &project.Name, &clientID)
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		project.ClientID = clientID.String
	}
	return project, nil
}

// ScanProjects scans multiple projects from database rows
func ScanProjects(rows Rows) ([]*Project, error) {
	var projects []*Project
	for rows.Next() {
		project, err := ScanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// ScanClient scans a single client from a database row
func ScanClient(scanner Scanner) (*Client, error) {
	client := &Client{}
	err := scanner.Scan(&client.ID, &client.Name)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ScanUser scans a single user from a database row
func ScanUser(scanner Scanner) (*User, error) {
	user := &User{}
	var managerID sql.NullString
	err := scanner.Scan(&user.ID, &user.Name, &user.Role, &managerID)
	if err != nil {
		return nil, err
	}
	if managerID.Valid {
		user.ManagerID = &managerID.String
	}
	return user, nil
}

// ScanUsers scans multiple users from database rows
func ScanUsers(rows Rows) ([]*User, error) {
	var users []*User
	for rows.Next() {
		user, err := ScanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
