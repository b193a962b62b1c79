package auth

import "strings"

// Role is a named set of permissions held by a principal.
type Role string

const (
	RoleUser    Role = "USER"
	RoleHR      Role = "HR"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Permission is a named capability granted through roles.
type Permission string

const (
	PermViewAllTimesheets  Permission = "VIEW_ALL_TIMESHEETS"
	PermViewUserTimesheets Permission = "VIEW_USER_TIMESHEETS"
	PermViewAllReports     Permission = "VIEW_ALL_REPORTS"
	PermManageUsers        Permission = "MANAGE_USERS"
)

// rolePermissions is the fixed role-to-permission table. Regular users hold no
// delegated permissions; they can only ever act on their own entries.
var rolePermissions = map[Role][]Permission{
	RoleUser:    {},
	RoleHR:      {PermViewAllTimesheets, PermViewAllReports},
	RoleManager: {PermViewUserTimesheets},
	RoleAdmin:   {PermViewAllTimesheets, PermViewAllReports, PermManageUsers},
}

// ParseRole converts a raw role string to a Role. Matching is case-insensitive
// and unknown or empty values fall back to RoleUser.
func ParseRole(raw string) Role {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RoleHR):
		return RoleHR
	case string(RoleManager):
		return RoleManager
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUser
	}
}

// ParseRoles converts raw role strings to a non-empty role list.
// An empty input yields the default RoleUser.
func ParseRoles(raw []string) []Role {
	if len(raw) == 0 {
		return []Role{RoleUser}
	}
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, ParseRole(r))
	}
	return roles
}

// Grants reports whether the role grants the given permission.
func (r Role) Grants(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}
