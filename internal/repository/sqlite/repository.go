package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"timesheet/internal/apperrors"
	"timesheet/internal/query"
	"timesheet/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// entryColumns is the column list shared by every time entry query.
const entryColumns = "te.id, te.user_id, te.project_id, te.description, te.start_time, te.end_time, te.duration_minutes, te.is_active"

// Repository defines the interface for database operations
type Repository interface {
	// Time entry operations
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntryForUser(ctx context.Context, userID, id string) (*TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
	DeleteTimeEntryForUser(ctx context.Context, userID, id string) (bool, error)
	FindActiveEntry(ctx context.Context, userID string) (*TimeEntry, error)

	// Scoped query execution
	SearchTimeEntries(ctx context.Context, scope *query.Scope) ([]*TimeEntry, int, error)
	EntriesInRange(ctx context.Context, scope *query.Scope, from, to *time.Time) ([]*TimeEntry, error)

	// Project and client operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ProjectExists(ctx context.Context, id string) (bool, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	CreateClient(ctx context.Context, client *Client) error

	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	ListDirectReports(ctx context.Context, managerID string) ([]string, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", err)
	}

	// The driver needs a single writer; one pooled connection also keeps
	// in-memory databases on a single handle.
	db.SetMaxOpenConns(1)

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateTimeEntry inserts a new time entry. Inserting a second active entry
// for the same user violates the partial unique index and is reported as a
// conflict, which is what guarantees the single-running-timer invariant under
// concurrent starts.
func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	q := `
	INSERT INTO time_entries (id, user_id, project_id, description, start_time, end_time, duration_minutes, is_active)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.ID, entry.UserID, entry.ProjectID, entry.Description,
		FormatTimeForDB(entry.StartTime), FormatTimePtrForDB(entry.EndTime),
		durationForDB(entry.DurationMinutes), boolForDB(entry.IsActive))
	if err != nil {
		if IsUniqueViolation(err) {
			return apperrors.NewConflictError("active entry already exists", err).
				WithContext("userId", entry.UserID)
		}
		return HandleDatabaseError("create time entry", err)
	}
	return nil
}

// GetTimeEntryForUser retrieves an entry by id, scoped to its owner.
func (r *SQLiteRepository) GetTimeEntryForUser(ctx context.Context, userID, id string) (*TimeEntry, error) {
	q := fmt.Sprintf(`
	SELECT %s
	FROM time_entries te
	WHERE te.id = ? AND te.user_id = ?`, entryColumns)

	return QuerySingle(ctx, r.db, q, ScanTimeEntry, "time entry", id, id, userID)
}

// UpdateTimeEntry updates an existing time entry
func (r *SQLiteRepository) UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	q := `
	UPDATE time_entries
	SET project_id = ?, description = ?, start_time = ?, end_time = ?, duration_minutes = ?, is_active = ?
	WHERE id = ? AND user_id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, q, "time entry", entry.ID,
		entry.ProjectID, entry.Description,
		FormatTimeForDB(entry.StartTime), FormatTimePtrForDB(entry.EndTime),
		durationForDB(entry.DurationMinutes), boolForDB(entry.IsActive),
		entry.ID, entry.UserID)
}

// DeleteTimeEntryForUser deletes an entry scoped to its owner and reports
// whether a row was removed.
func (r *SQLiteRepository) DeleteTimeEntryForUser(ctx context.Context, userID, id string) (bool, error) {
	result, err := Execute(ctx, r.db, `DELETE FROM time_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, HandleDatabaseError("get rows affected", err)
	}
	return rows > 0, nil
}

// FindActiveEntry returns the user's running entry, or nil if the user is idle.
func (r *SQLiteRepository) FindActiveEntry(ctx context.Context, userID string) (*TimeEntry, error) {
	q := fmt.Sprintf(`
	SELECT %s
	FROM time_entries te
	WHERE te.user_id = ? AND te.is_active = 1`, entryColumns)

	entry, err := QuerySingle(ctx, r.db, q, ScanTimeEntry, "active entry", userID, userID)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// SearchTimeEntries executes a resolved scope against the store and returns
// the requested page of entries plus the total match count.
func (r *SQLiteRepository) SearchTimeEntries(ctx context.Context, scope *query.Scope) ([]*TimeEntry, int, error) {
	where, args := buildScopePredicates(scope, scope.DateFrom, scope.DateTo)

	countQuery := "SELECT COUNT(*) " + scopeFromClause + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, HandleDatabaseError("count time entries", err)
	}

	q := fmt.Sprintf("SELECT %s %s%s ORDER BY %s %s LIMIT ? OFFSET ?",
		entryColumns, scopeFromClause, where, sortColumn(scope.SortBy), sortDirection(scope.SortOrder))
	args = append(args, scope.Limit, scope.Offset)

	entries, err := QueryMultiple(ctx, r.db, q, ScanTimeEntries, "time entries", args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// EntriesInRange returns every entry matching the scope's user, project, and
// search predicates within the given date window, ignoring the scope's
// pagination. Used by the report aggregator.
func (r *SQLiteRepository) EntriesInRange(ctx context.Context, scope *query.Scope, from, to *time.Time) ([]*TimeEntry, error) {
	where, args := buildScopePredicates(scope, from, to)

	q := fmt.Sprintf("SELECT %s %s%s ORDER BY te.start_time ASC", entryColumns, scopeFromClause, where)
	return QueryMultiple(ctx, r.db, q, ScanTimeEntries, "time entries", args...)
}

// CreateProject creates a new project
func (r *SQLiteRepository) CreateProject(ctx context.Context, project *Project) error {
	q := `INSERT INTO projects (id, name, client_id) VALUES (?, ?, ?)`
	var clientID interface{}
	if project.ClientID != "" {
		clientID = project.ClientID
	}
	if _, err := Execute(ctx, r.db, q, project.ID, project.Name, clientID); err != nil {
		return err
	}
	return nil
}

// GetProject retrieves a project by ID
func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	q := `SELECT id, name, client_id FROM projects WHERE id = ?`
	return QuerySingle(ctx, r.db, q, ScanProject, "project", id, id)
}

// ProjectExists reports whether a project with the given id exists.
func (r *SQLiteRepository) ProjectExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, HandleDatabaseError("check project exists", err)
	}
	return count > 0, nil
}

// ListProjects retrieves all projects ordered by name
func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	q := `SELECT id, name, client_id FROM projects ORDER BY name ASC`
	return QueryMultiple(ctx, r.db, q, ScanProjects, "projects")
}

// CreateClient creates a new client
func (r *SQLiteRepository) CreateClient(ctx context.Context, client *Client) error {
	if _, err := Execute(ctx, r.db, `INSERT INTO clients (id, name) VALUES (?, ?)`, client.ID, client.Name); err != nil {
		return err
	}
	return nil
}

// CreateUser creates a new user
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *User) error {
	q := `INSERT INTO users (id, name, role, manager_id) VALUES (?, ?, ?, ?)`
	var managerID interface{}
	if user.ManagerID != nil {
		managerID = *user.ManagerID
	}
	if _, err := Execute(ctx, r.db, q, user.ID, user.Name, user.Role, managerID); err != nil {
		return err
	}
	return nil
}

// GetUser retrieves a user by ID
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*User, error) {
	q := `SELECT id, name, role, manager_id FROM users WHERE id = ?`
	return QuerySingle(ctx, r.db, q, ScanUser, "user", id, id)
}

// ListDirectReports returns the ids of users managed by the given user.
func (r *SQLiteRepository) ListDirectReports(ctx context.Context, managerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE manager_id = ? ORDER BY id ASC`, managerID)
	if err != nil {
		return nil, HandleDatabaseError("query direct reports", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, HandleDatabaseError("scan direct reports", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, HandleDatabaseError("scan direct reports", err)
	}
	return ids, nil
}

// scopeFromClause joins projects and clients so search and project predicates
// can match their names.
const scopeFromClause = `
	FROM time_entries te
	JOIN projects p ON p.id = te.project_id
	LEFT JOIN clients c ON c.id = p.client_id`

// buildScopePredicates assembles the WHERE clause and arguments for a scope,
// with the date window overridable so reports can apply their own bounds.
func buildScopePredicates(scope *query.Scope, from, to *time.Time) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if !scope.AllUsers {
		conditions = append(conditions, "te.user_id IN ("+placeholders(len(scope.UserIDs))+")")
		for _, id := range scope.UserIDs {
			args = append(args, id)
		}
	}

	if len(scope.Projects) > 0 {
		conditions = append(conditions, "p.name IN ("+placeholders(len(scope.Projects))+")")
		for _, name := range scope.Projects {
			args = append(args, name)
		}
	}

	if scope.Search != "" {
		conditions = append(conditions, "(LOWER(te.description) LIKE ? OR LOWER(p.name) LIKE ? OR LOWER(c.name) LIKE ?)")
		pattern := "%" + strings.ToLower(scope.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	// Inclusive day-level bounds on the calendar date of the start time.
	if from != nil {
		conditions = append(conditions, "date(te.start_time) >= date(?)")
		args = append(args, FormatDateForDB(*from))
	}
	if to != nil {
		conditions = append(conditions, "date(te.start_time) <= date(?)")
		args = append(args, FormatDateForDB(*to))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	if n == 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// sortColumn maps a scope sort key to its SQL column.
func sortColumn(key query.SortKey) string {
	switch key {
	case query.SortByDuration:
		return "te.duration_minutes"
	case query.SortByProject:
		return "p.name"
	default:
		return "te.start_time"
	}
}

// sortDirection maps a scope sort direction to SQL.
func sortDirection(dir query.SortDir) string {
	if dir == query.SortAsc {
		return "ASC"
	}
	return "DESC"
}

// durationForDB converts an optional minute count for storage.
func durationForDB(minutes *int) interface{} {
	if minutes == nil {
		return nil
	}
	return *minutes
}

// boolForDB converts a bool to its sqlite integer representation.
func boolForDB(b bool) int {
	if b {
		return 1
	}
	return 0
}
