package cli

import (
	"context"
	"time"

	"timesheet/internal/apperrors"
	"timesheet/internal/auth"
	"timesheet/internal/config"
	"timesheet/internal/domain"
	"timesheet/internal/logging"
	"timesheet/internal/query"
	"timesheet/internal/report"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/timer"
)

// EntryList is a page of entries plus the total match count.
type EntryList struct {
	Entries []*domain.TimeEntry
	Total   int
	Page    int
	Limit   int
}

// App ties the engine components together for the CLI: it resolves an
// authorization context for the acting principal, then routes commands to the
// timer service, the scope builder, and the report aggregator.
type App struct {
	repo       sqlite.Repository
	timer      *timer.Service
	builder    *query.Builder
	aggregator *report.Aggregator
	mapper     *domain.Mapper
	config     *config.Config
	errors     *ErrorHandler
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(repo sqlite.Repository, cfg *config.Config) *App {
	return &App{
		repo:       repo,
		timer:      timer.NewService(repo),
		builder:    query.NewBuilder(),
		aggregator: report.NewAggregator(repo),
		mapper:     domain.NewMapper(),
		config:     cfg,
		errors:     NewErrorHandler(),
	}
}

// ResolveContext builds the authorization context for the acting principal.
// Claim roles passed on the command line take precedence over the stored
// role; direct reports come from the user store's manager linkage.
func (a *App) ResolveContext(ctx context.Context, principalID string, claimRoles []string) (*auth.Context, error) {
	if principalID == "" {
		return nil, apperrors.NewValidationError("acting user id is required", nil)
	}

	storedRole := ""
	if user, err := a.repo.GetUser(ctx, principalID); err == nil {
		storedRole = user.Role
	} else if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	reports, err := a.repo.ListDirectReports(ctx, principalID)
	if err != nil {
		return nil, err
	}

	authCtx := auth.FromPrincipal(principalID, claimRoles, storedRole, auth.Metadata{DirectReports: reports})
	logging.Debugf("resolved context for %s: roles=%v reports=%d\n", principalID, authCtx.Roles, len(reports))
	return authCtx, nil
}

// StartTimer starts a running entry for the principal.
func (a *App) StartTimer(ctx context.Context, userID, projectID, description string) (*domain.TimeEntry, error) {
	entry, err := a.timer.Start(ctx, userID, projectID, description)
	if err != nil {
		return nil, a.errors.Handle("start timer", err)
	}
	return entry, nil
}

// StopTimer stops the principal's running entry.
func (a *App) StopTimer(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error) {
	entry, err := a.timer.Stop(ctx, userID, entryID)
	if err != nil {
		return nil, a.errors.Handle("stop timer", err)
	}
	return entry, nil
}

// PauseTimer stops the principal's running entry; there is no resume.
func (a *App) PauseTimer(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entry, err := a.timer.Pause(ctx, userID)
	if err != nil {
		return nil, a.errors.Handle("pause timer", err)
	}
	return entry, nil
}

// AddEntry records a completed block of work.
func (a *App) AddEntry(ctx context.Context, userID, projectID, description string, startTime, endTime time.Time) (*domain.TimeEntry, error) {
	entry, err := a.timer.AddManualEntry(ctx, userID, projectID, description, startTime, endTime)
	if err != nil {
		return nil, a.errors.Handle("add entry", err)
	}
	return entry, nil
}

// DeleteEntry removes one of the principal's entries.
func (a *App) DeleteEntry(ctx context.Context, userID, entryID string) (bool, error) {
	deleted, err := a.timer.DeleteEntry(ctx, userID, entryID)
	if err != nil {
		return false, a.errors.Handle("delete entry", err)
	}
	return deleted, nil
}

// CurrentEntry returns the principal's running entry, or nil when idle.
func (a *App) CurrentEntry(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entry, err := a.timer.GetActiveEntry(ctx, userID)
	if err != nil {
		return nil, a.errors.Handle("get current entry", err)
	}
	return entry, nil
}

// ListProjects returns the project catalog ordered by name.
func (a *App) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := a.repo.ListProjects(ctx)
	if err != nil {
		return nil, a.errors.Handle("list projects", err)
	}

	projects := make([]*domain.Project, len(rows))
	for i, row := range rows {
		project := a.mapper.Project.FromDatabase(*row)
		projects[i] = &project
	}
	return projects, nil
}

// ListEntries authorizes the requested filters for the principal, resolves
// the scope, and executes it.
func (a *App) ListEntries(ctx context.Context, principalID string, claimRoles []string, filters query.Filters) (*EntryList, error) {
	authCtx, err := a.ResolveContext(ctx, principalID, claimRoles)
	if err != nil {
		return nil, err
	}

	if filters.Limit < 1 {
		filters.Limit = a.config.Pagination.DefaultLimit
	}
	if filters.Limit > a.config.Pagination.MaxLimit {
		filters.Limit = a.config.Pagination.MaxLimit
	}

	scope, err := a.builder.Build(authCtx, filters)
	if err != nil {
		return nil, a.errors.Handle("list entries", err)
	}

	rows, total, err := a.repo.SearchTimeEntries(ctx, scope)
	if err != nil {
		return nil, a.errors.Handle("list entries", err)
	}

	return &EntryList{
		Entries: a.mapper.TimeEntry.FromDatabaseSlice(rows),
		Total:   total,
		Page:    scope.Page,
		Limit:   scope.Limit,
	}, nil
}

// reportScope authorizes the report targets for the principal and resolves
// the scope the aggregator will run against.
func (a *App) reportScope(ctx context.Context, principalID string, claimRoles []string, targets []string) (*query.Scope, error) {
	authCtx, err := a.ResolveContext(ctx, principalID, claimRoles)
	if err != nil {
		return nil, err
	}

	if d := authCtx.CanViewReports(targets); !d.Authorized {
		return nil, a.errors.Handle("view reports", apperrors.NewForbiddenError(d.Reason))
	}

	scope, err := a.builder.Build(authCtx, query.Filters{Users: targets})
	if err != nil {
		return nil, a.errors.Handle("view reports", err)
	}
	return scope, nil
}

// Dashboard computes the dashboard summary for the target users.
func (a *App) Dashboard(ctx context.Context, principalID string, claimRoles []string, targets []string) (*report.DashboardSummary, error) {
	scope, err := a.reportScope(ctx, principalID, claimRoles, targets)
	if err != nil {
		return nil, err
	}
	return a.aggregator.DashboardSummary(ctx, scope)
}

// DailyHours computes per-day totals for the trailing window.
func (a *App) DailyHours(ctx context.Context, principalID string, claimRoles []string, targets []string, days int) ([]report.DayBucket, error) {
	scope, err := a.reportScope(ctx, principalID, claimRoles, targets)
	if err != nil {
		return nil, err
	}
	return a.aggregator.DailyHours(ctx, scope, days)
}

// ProjectHours computes per-project totals for the current month.
func (a *App) ProjectHours(ctx context.Context, principalID string, claimRoles []string, targets []string) ([]report.ProjectBucket, error) {
	scope, err := a.reportScope(ctx, principalID, claimRoles, targets)
	if err != nil {
		return nil, err
	}
	return a.aggregator.HoursByProjectCurrentMonth(ctx, scope)
}

// MonthlyHours computes per-month totals for the trailing window.
func (a *App) MonthlyHours(ctx context.Context, principalID string, claimRoles []string, targets []string, months int) ([]report.MonthBucket, error) {
	scope, err := a.reportScope(ctx, principalID, claimRoles, targets)
	if err != nil {
		return nil, err
	}
	return a.aggregator.MonthlyBilledHours(ctx, scope, months)
}
