package domain

// User represents a principal known to the timesheet store.
// Role holds the stored role name; the authorization layer parses it and
// applies claim-over-stored precedence when building a context.
type User struct {
	ID        string
	Name      string
	Role      string
	ManagerID *string
}

// IsValid checks if the user has valid data.
func (u User) IsValid() bool {
	return u.ID != "" && u.Name != ""
}
