package query

import (
	"strings"

	"timesheet/internal/apperrors"
	"timesheet/internal/auth"
)

// Builder resolves raw filters against an authorization context and produces
// a concrete scope. It is stateless and safe for concurrent use.
type Builder struct{}

// NewBuilder creates a new scope builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build authorizes the requested user filter and returns the resolved scope.
// Authorization is resolved before any predicate is assembled; a denial is
// returned as a forbidden error carrying the specific reason.
func (b *Builder) Build(ctx *auth.Context, f Filters) (*Scope, error) {
	scope := &Scope{
		Search:    strings.TrimSpace(f.Search),
		Projects:  normalizeProjects(f.Projects),
		DateFrom:  f.DateFrom,
		DateTo:    f.DateTo,
		SortBy:    parseSortKey(f.SortBy),
		SortOrder: parseSortDir(f.SortOrder),
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	scope.Page = page
	scope.Limit = limit
	scope.Offset = (page - 1) * limit

	switch {
	case f.AllUsers:
		if d := ctx.CanViewAllTimesheets(); !d.Authorized {
			return nil, apperrors.NewForbiddenError(d.Reason)
		}
		scope.AllUsers = true

	case len(f.Users) > 0:
		if err := b.authorizeUserSet(ctx, f.Users); err != nil {
			return nil, err
		}
		scope.UserIDs = f.Users

	default:
		scope.UserIDs = []string{ctx.PrincipalID}
	}

	return scope, nil
}

// authorizeUserSet checks an explicit user id set. A set containing only the
// principal needs no further check. Otherwise the blanket view-all permission
// is tried first; failing that, each foreign id is checked individually and
// the first denial is surfaced as-is.
func (b *Builder) authorizeUserSet(ctx *auth.Context, users []string) error {
	foreign := make([]string, 0, len(users))
	for _, id := range users {
		if id != ctx.PrincipalID {
			foreign = append(foreign, id)
		}
	}
	if len(foreign) == 0 {
		return nil
	}

	if d := ctx.CanViewAllTimesheets(); d.Authorized {
		return nil
	}
	for _, id := range foreign {
		if d := ctx.CanViewUserTimesheets(id); !d.Authorized {
			return apperrors.NewForbiddenError(d.Reason)
		}
	}
	return nil
}

// normalizeProjects drops the "all" sentinel so an unrestricted project filter
// becomes an empty predicate set.
func normalizeProjects(projects []string) []string {
	named := make([]string, 0, len(projects))
	for _, p := range projects {
		p = strings.TrimSpace(p)
		if p == "" || strings.EqualFold(p, "all") {
			continue
		}
		named = append(named, p)
	}
	if len(named) == 0 {
		return nil
	}
	return named
}
