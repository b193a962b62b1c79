package auth

// Metadata carries optional delegation data attached to a principal.
type Metadata struct {
	// DirectReports lists the principal ids a manager may view on behalf of.
	DirectReports []string
}

// Context is the per-call authorization context for a principal.
// It is constructed fresh for each request and never persisted.
type Context struct {
	PrincipalID string
	Roles       []Role
	Metadata    Metadata
}

// NewContext builds an authorization context from raw role strings.
// The role list is normalized to be non-empty: absent or unknown roles
// parse to RoleUser.
func NewContext(principalID string, rawRoles []string, md Metadata) *Context {
	return &Context{
		PrincipalID: principalID,
		Roles:       ParseRoles(rawRoles),
		Metadata:    md,
	}
}

// FromPrincipal builds a context applying the role source precedence:
// an externally asserted claim wins over the stored role, and the stored
// role wins over the RoleUser default. The same precedence must hold at
// every call site to keep claim-based and stored roles from diverging.
func FromPrincipal(principalID string, claimRoles []string, storedRole string, md Metadata) *Context {
	switch {
	case len(claimRoles) > 0:
		return NewContext(principalID, claimRoles, md)
	case storedRole != "":
		return NewContext(principalID, []string{storedRole}, md)
	default:
		return NewContext(principalID, nil, md)
	}
}

// HasPermission reports whether any of the context's roles grants the permission.
func (c *Context) HasPermission(p Permission) bool {
	for _, role := range c.Roles {
		if role.Grants(p) {
			return true
		}
	}
	return false
}

// IsDirectReport reports whether the target id is listed in the principal's
// direct reports.
func (c *Context) IsDirectReport(targetID string) bool {
	for _, id := range c.Metadata.DirectReports {
		if id == targetID {
			return true
		}
	}
	return false
}

// roleNames returns the held role names for use in denial reasons.
func (c *Context) roleNames() []string {
	names := make([]string, len(c.Roles))
	for i, role := range c.Roles {
		names[i] = role.String()
	}
	return names
}
