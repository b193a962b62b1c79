package domain

// Project represents a billable project in the domain model.
type Project struct {
	ID       string
	Name     string
	ClientID string
}

// IsValid checks if the project has valid data.
func (p Project) IsValid() bool {
	return p.ID != "" && p.Name != ""
}

// String returns the project name for display purposes.
func (p Project) String() string {
	return p.Name
}

// Client represents a customer that projects are billed against.
type Client struct {
	ID   string
	Name string
}
