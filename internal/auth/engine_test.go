package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_CanViewAllTimesheets(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		authorized bool
	}{
		{name: "user is denied", roles: []string{"user"}, authorized: false},
		{name: "manager is denied", roles: []string{"manager"}, authorized: false},
		{name: "hr is authorized", roles: []string{"hr"}, authorized: true},
		{name: "admin is authorized", roles: []string{"admin"}, authorized: true},
		{name: "any granting role suffices", roles: []string{"user", "hr"}, authorized: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext("u1", tt.roles, Metadata{})

			decision := ctx.CanViewAllTimesheets()

			assert.Equal(t, tt.authorized, decision.Authorized)
			if !tt.authorized {
				assert.NotEmpty(t, decision.Reason, "denials must carry a reason")
			}
		})
	}
}

func TestContext_CanViewUserTimesheets(t *testing.T) {
	tests := []struct {
		name           string
		ctx            *Context
		targetID       string
		authorized     bool
		reasonContains []string
	}{
		{
			name:       "user can view themselves",
			ctx:        NewContext("u1", []string{"user"}, Metadata{}),
			targetID:   "u1",
			authorized: true,
		},
		{
			name:           "user cannot view another user",
			ctx:            NewContext("u1", []string{"user"}, Metadata{}),
			targetID:       "u2",
			authorized:     false,
			reasonContains: []string{"USER"},
		},
		{
			name:       "hr can view any user",
			ctx:        NewContext("hrUser", []string{"hr"}, Metadata{}),
			targetID:   "u2",
			authorized: true,
		},
		{
			name:       "manager can view a direct report",
			ctx:        NewContext("m", []string{"manager"}, Metadata{DirectReports: []string{"u1"}}),
			targetID:   "u1",
			authorized: true,
		},
		{
			name:           "manager cannot view a non-report",
			ctx:            NewContext("m", []string{"manager"}, Metadata{DirectReports: []string{"u1"}}),
			targetID:       "u9",
			authorized:     false,
			reasonContains: []string{"u9", "direct reports"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := tt.ctx.CanViewUserTimesheets(tt.targetID)

			assert.Equal(t, tt.authorized, decision.Authorized)
			for _, fragment := range tt.reasonContains {
				assert.Contains(t, decision.Reason, fragment)
			}
		})
	}
}

func TestContext_CanViewReports(t *testing.T) {
	tests := []struct {
		name           string
		ctx            *Context
		targets        []string
		authorized     bool
		reasonContains []string
		reasonExcludes []string
	}{
		{
			name:       "absent targets means own reports",
			ctx:        NewContext("u1", []string{"user"}, Metadata{}),
			targets:    nil,
			authorized: true,
		},
		{
			name:       "empty targets means own reports",
			ctx:        NewContext("u1", []string{"user"}, Metadata{}),
			targets:    []string{},
			authorized: true,
		},
		{
			name:       "self-only target set is allowed",
			ctx:        NewContext("u1", []string{"user"}, Metadata{}),
			targets:    []string{"u1"},
			authorized: true,
		},
		{
			name:       "user cannot view another user's reports",
			ctx:        NewContext("u1", []string{"user"}, Metadata{}),
			targets:    []string{"u2"},
			authorized: false,
		},
		{
			name:       "hr can view any reports",
			ctx:        NewContext("hrUser", []string{"hr"}, Metadata{}),
			targets:    []string{"u1", "u2"},
			authorized: true,
		},
		{
			name:       "manager can view self plus direct reports",
			ctx:        NewContext("m", []string{"manager"}, Metadata{DirectReports: []string{"u1", "u2"}}),
			targets:    []string{"m", "u1", "u2"},
			authorized: true,
		},
		{
			name:           "manager denial enumerates only the unauthorized ids",
			ctx:            NewContext("m", []string{"manager"}, Metadata{DirectReports: []string{"u1"}}),
			targets:        []string{"u1", "u9"},
			authorized:     false,
			reasonContains: []string{"u9"},
			reasonExcludes: []string{"u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := tt.ctx.CanViewReports(tt.targets)

			assert.Equal(t, tt.authorized, decision.Authorized)
			for _, fragment := range tt.reasonContains {
				assert.Contains(t, decision.Reason, fragment)
			}
			for _, fragment := range tt.reasonExcludes {
				assert.NotContains(t, decision.Reason, fragment)
			}
		})
	}
}

func TestFromPrincipal_RolePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		claimRoles []string
		storedRole string
		expected   []Role
	}{
		{
			name:       "claim roles win over the stored role",
			claimRoles: []string{"hr"},
			storedRole: "admin",
			expected:   []Role{RoleHR},
		},
		{
			name:       "stored role applies without a claim",
			claimRoles: nil,
			storedRole: "manager",
			expected:   []Role{RoleManager},
		},
		{
			name:       "defaults to user with neither source",
			claimRoles: nil,
			storedRole: "",
			expected:   []Role{RoleUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := FromPrincipal("u1", tt.claimRoles, tt.storedRole, Metadata{})

			assert.Equal(t, tt.expected, ctx.Roles)
			assert.Equal(t, "u1", ctx.PrincipalID)
		})
	}
}

func TestContext_ChecksNeverMutate(t *testing.T) {
	// Repeated checks on the same context are pure; the context is safe to
	// share across concurrent calls.
	ctx := NewContext("m", []string{"manager"}, Metadata{DirectReports: []string{"u1"}})

	first := ctx.CanViewUserTimesheets("u9")
	second := ctx.CanViewUserTimesheets("u9")

	assert.Equal(t, first, second)
	assert.Equal(t, []Role{RoleManager}, ctx.Roles)
}
