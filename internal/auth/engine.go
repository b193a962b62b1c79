package auth

import (
	"fmt"
	"strings"
)

// Decision is the outcome of an authorization check. Checks never return
// errors; a denial always carries a human-readable reason the caller can
// surface as a 403-equivalent response.
type Decision struct {
	Authorized bool
	Reason     string
}

// Allow is the positive decision.
func Allow() Decision {
	return Decision{Authorized: true}
}

// Deny builds a negative decision with a formatted reason.
func Deny(format string, args ...interface{}) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// CanViewAllTimesheets decides whether the principal may view every user's
// timesheets.
func (c *Context) CanViewAllTimesheets() Decision {
	if c.HasPermission(PermViewAllTimesheets) {
		return Allow()
	}
	return Deny("role(s) %s cannot view all timesheets", strings.Join(c.roleNames(), ", "))
}

// CanViewUserTimesheets decides whether the principal may view the target
// user's timesheets. Principals always see their own entries; holders of the
// view-all permission see everyone; managers see their direct reports.
func (c *Context) CanViewUserTimesheets(targetID string) Decision {
	if targetID == c.PrincipalID {
		return Allow()
	}
	if d := c.CanViewAllTimesheets(); d.Authorized {
		return d
	}
	if c.HasPermission(PermViewUserTimesheets) {
		if c.IsDirectReport(targetID) {
			return Allow()
		}
		return Deny("user %s is not in your direct reports", targetID)
	}
	return Deny("role(s) %s cannot view other users' timesheets", strings.Join(c.roleNames(), ", "))
}

// CanViewReports decides whether the principal may view reports for the given
// target users. An empty target set means "my own reports" and is always
// allowed. Managers are allowed only if every requested id is themselves or a
// direct report; the denial reason enumerates exactly the ids that are not.
func (c *Context) CanViewReports(targetIDs []string) Decision {
	if len(targetIDs) == 0 {
		return Allow()
	}
	if len(targetIDs) == 1 && targetIDs[0] == c.PrincipalID {
		return Allow()
	}
	if c.HasPermission(PermViewAllReports) {
		return Allow()
	}
	if c.HasPermission(PermViewUserTimesheets) {
		var unauthorized []string
		for _, id := range targetIDs {
			if id != c.PrincipalID && !c.IsDirectReport(id) {
				unauthorized = append(unauthorized, id)
			}
		}
		if len(unauthorized) == 0 {
			return Allow()
		}
		return Deny("not authorized to view reports for: %s", strings.Join(unauthorized, ", "))
	}
	return Deny("role(s) %s cannot view other users' reports", strings.Join(c.roleNames(), ", "))
}
