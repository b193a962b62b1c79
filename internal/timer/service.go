package timer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"timesheet/internal/apperrors"
	"timesheet/internal/domain"
	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/validation"
)

// EntryUpdate carries the optional fields of an entry update. Nil fields are
// left unchanged.
type EntryUpdate struct {
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
}

// Service owns the time entry lifecycle for each user: a user is either idle
// or has exactly one running entry. The persistence layer backs the
// single-running-timer invariant with a uniqueness guarantee, so a concurrent
// start that loses the race fails with a conflict rather than creating a
// second active entry.
type Service struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.EntryValidator
	now       func() time.Time
}

// NewService creates a new timer service instance.
func NewService(repo sqlite.Repository) *Service {
	return &Service{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewEntryValidator(),
		now:       time.Now,
	}
}

// NewServiceWithClock creates a timer service with an injected clock for tests.
func NewServiceWithClock(repo sqlite.Repository, now func() time.Time) *Service {
	s := NewService(repo)
	s.now = now
	return s
}

// Start begins a running entry for the user. The project must exist and the
// user must be idle; starting while a timer is already running fails with a
// conflict.
func (s *Service) Start(ctx context.Context, userID, projectID, description string) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateStart(userID, projectID, description); err != nil {
		return nil, err
	}
	description = s.validator.NormalizeDescription(description)

	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	// Cheap pre-check for the common sequential case. The authoritative
	// guard is the store's uniqueness constraint on active entries.
	active, err := s.repo.FindActiveEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperrors.NewConflictError("active entry already exists", nil).
			WithContext("userId", userID).
			WithContext("entryId", active.ID)
	}

	entry := domain.NewRunningEntry(uuid.NewString(), userID, projectID, description, s.now())
	row := s.mapper.TimeEntry.ToDatabase(entry)
	if err := s.repo.CreateTimeEntry(ctx, &row); err != nil {
		return nil, err
	}

	logging.Debugf("started entry %s for user %s\n", entry.ID, userID)
	return &entry, nil
}

// Stop closes the user's running entry, computing its duration. When entryID
// is non-empty the running entry must match it. Fails not-found when the user
// is idle.
func (s *Service) Stop(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error) {
	active, err := s.repo.FindActiveEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active == nil || (entryID != "" && active.ID != entryID) {
		return nil, apperrors.NewNotFoundError("active entry", userID)
	}

	entry := s.mapper.TimeEntry.FromDatabase(*active).Close(s.now())
	row := s.mapper.TimeEntry.ToDatabase(entry)
	if err := s.repo.UpdateTimeEntry(ctx, &row); err != nil {
		return nil, err
	}

	logging.Debugf("stopped entry %s for user %s\n", entry.ID, userID)
	return &entry, nil
}

// Pause closes the user's running entry exactly like Stop. There is no resume
// capability; a paused timer cannot be continued, only started again.
func (s *Service) Pause(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	return s.Stop(ctx, userID, "")
}

// AddManualEntry records an already-completed block of work. It does not
// interact with the user's running entry, if any.
func (s *Service) AddManualEntry(ctx context.Context, userID, projectID, description string, startTime, endTime time.Time) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateManualEntry(userID, projectID, startTime, endTime); err != nil {
		return nil, err
	}
	description = s.validator.NormalizeDescription(description)

	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	entry := domain.NewClosedEntry(uuid.NewString(), userID, projectID, description, startTime, endTime)
	row := s.mapper.TimeEntry.ToDatabase(entry)
	if err := s.repo.CreateTimeEntry(ctx, &row); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry applies a partial update to one of the user's entries and
// returns nil without an error when the entry does not exist. When either
// time field changes the duration is recomputed from the resulting pair; the
// ordering of the pair is not re-checked here, so an inverted range passes
// through with a zero duration.
func (s *Service) UpdateEntry(ctx context.Context, userID, entryID string, update EntryUpdate) (*domain.TimeEntry, error) {
	row, err := s.repo.GetTimeEntryForUser(ctx, userID, entryID)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry := s.mapper.TimeEntry.FromDatabase(*row)
	if update.Description != nil {
		entry.Description = *update.Description
	}
	if update.StartTime != nil {
		entry.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		entry.EndTime = update.EndTime
	}

	if update.StartTime != nil || update.EndTime != nil {
		if entry.EndTime != nil {
			minutes := domain.MinutesBetween(entry.StartTime, *entry.EndTime)
			entry.DurationMinutes = &minutes
			entry.IsActive = false
		} else {
			entry.DurationMinutes = nil
		}
	}

	updated := s.mapper.TimeEntry.ToDatabase(entry)
	if err := s.repo.UpdateTimeEntry(ctx, &updated); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes one of the user's entries and reports whether an entry
// was actually removed.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID string) (bool, error) {
	return s.repo.DeleteTimeEntryForUser(ctx, userID, entryID)
}

// GetActiveEntry returns the user's running entry, or nil when the user is
// idle. It has no side effects.
func (s *Service) GetActiveEntry(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	row, err := s.repo.FindActiveEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	entry := s.mapper.TimeEntry.FromDatabase(*row)
	return &entry, nil
}

// requireProject fails not-found unless the project exists.
func (s *Service) requireProject(ctx context.Context, projectID string) error {
	exists, err := s.repo.ProjectExists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFoundError("project", projectID)
	}
	return nil
}
