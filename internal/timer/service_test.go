package timer

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/apperrors"
	"timesheet/internal/repository/sqlite"
)

func setupService(t *testing.T) (*Service, *time.Time) {
	t.Helper()

	repo, err := sqlite.New(filepath.Join(t.TempDir(), "timesheet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	require.NoError(t, repo.CreateProject(ctx, &sqlite.Project{ID: "p1", Name: "Website"}))
	require.NoError(t, repo.CreateProject(ctx, &sqlite.Project{ID: "p2", Name: "Backend"}))

	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	clock := &now
	service := NewServiceWithClock(repo, func() time.Time { return *clock })

	return service, clock
}

func TestService_StartAndStop(t *testing.T) {
	service, clock := setupService(t)
	ctx := context.Background()

	started, err := service.Start(ctx, "u1", "p1", "morning work")
	require.NoError(t, err)
	assert.NotEmpty(t, started.ID)
	assert.True(t, started.IsActive)
	assert.Nil(t, started.EndTime)
	assert.Nil(t, started.DurationMinutes)
	assert.True(t, started.StartTime.Equal(*clock))

	*clock = clock.Add(90 * time.Minute)

	stopped, err := service.Stop(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, started.ID, stopped.ID)
	assert.False(t, stopped.IsActive)
	require.NotNil(t, stopped.EndTime)
	require.NotNil(t, stopped.DurationMinutes)
	assert.Equal(t, 90, *stopped.DurationMinutes)

	// The user is idle again.
	active, err := service.GetActiveEntry(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestService_Start_TrimsDescription(t *testing.T) {
	service, _ := setupService(t)

	started, err := service.Start(context.Background(), "u1", "p1", "  feature work ")

	require.NoError(t, err)
	assert.Equal(t, "feature work", started.Description)
}

func TestService_Start_Validation(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    string
		projectID string
	}{
		{name: "empty user id", userID: "", projectID: "p1"},
		{name: "empty project id", userID: "u1", projectID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Start(ctx, tt.userID, tt.projectID, "work")

			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestService_Start_UnknownProject(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Start(context.Background(), "u1", "ghost", "work")

	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestService_Start_SecondStartConflicts(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	_, err := service.Start(ctx, "u1", "p1", "first")
	require.NoError(t, err)

	_, err = service.Start(ctx, "u1", "p2", "second")

	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	// A different user is unaffected.
	_, err = service.Start(ctx, "u2", "p1", "other")
	require.NoError(t, err)
}

func TestService_Start_ConcurrentStartsYieldOneEntry(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Start(ctx, "u1", "p1", "race")
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.IsErrorType(err, apperrors.ErrorTypeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	active, err := service.GetActiveEntry(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
}

func TestService_Stop_WhenIdle(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Stop(context.Background(), "u1", "")

	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestService_Stop_EntryIDMustMatch(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	started, err := service.Start(ctx, "u1", "p1", "work")
	require.NoError(t, err)

	_, err = service.Stop(ctx, "u1", "some-other-id")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	stopped, err := service.Stop(ctx, "u1", started.ID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, stopped.ID)
}

func TestService_Pause_ClosesTheEntry(t *testing.T) {
	service, clock := setupService(t)
	ctx := context.Background()

	_, err := service.Start(ctx, "u1", "p1", "work")
	require.NoError(t, err)
	*clock = clock.Add(30 * time.Minute)

	paused, err := service.Pause(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, paused.IsActive)
	require.NotNil(t, paused.DurationMinutes)
	assert.Equal(t, 30, *paused.DurationMinutes)

	// Pause is terminal: there is nothing to resume.
	active, err := service.GetActiveEntry(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestService_AddManualEntry(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	entry, err := service.AddManualEntry(ctx, "u1", "p1", "backfilled", start, end)

	require.NoError(t, err)
	assert.False(t, entry.IsActive)
	require.NotNil(t, entry.DurationMinutes)
	assert.Equal(t, 120, *entry.DurationMinutes)
}

func TestService_AddManualEntry_InvertedRange(t *testing.T) {
	service, _ := setupService(t)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	_, err := service.AddManualEntry(context.Background(), "u1", "p1", "bad", start, end)

	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "end time must be after start time")
}

func TestService_AddManualEntry_DoesNotTouchRunningTimer(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	started, err := service.Start(ctx, "u1", "p1", "running")
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	_, err = service.AddManualEntry(ctx, "u1", "p2", "backfilled", start, start.Add(time.Hour))
	require.NoError(t, err)

	active, err := service.GetActiveEntry(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, started.ID, active.ID)
}

func TestService_UpdateEntry(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := service.AddManualEntry(ctx, "u1", "p1", "original", start, start.Add(time.Hour))
	require.NoError(t, err)

	t.Run("description only leaves times and duration alone", func(t *testing.T) {
		description := "revised"

		updated, err := service.UpdateEntry(ctx, "u1", created.ID, EntryUpdate{Description: &description})

		require.NoError(t, err)
		assert.Equal(t, "revised", updated.Description)
		require.NotNil(t, updated.DurationMinutes)
		assert.Equal(t, 60, *updated.DurationMinutes)
	})

	t.Run("time change recomputes the duration", func(t *testing.T) {
		newEnd := start.Add(3 * time.Hour)

		updated, err := service.UpdateEntry(ctx, "u1", created.ID, EntryUpdate{EndTime: &newEnd})

		require.NoError(t, err)
		require.NotNil(t, updated.DurationMinutes)
		assert.Equal(t, 180, *updated.DurationMinutes)
	})

	t.Run("inverted range is stored with a zero duration", func(t *testing.T) {
		newStart := start.Add(6 * time.Hour)

		updated, err := service.UpdateEntry(ctx, "u1", created.ID, EntryUpdate{StartTime: &newStart})

		require.NoError(t, err)
		require.NotNil(t, updated.DurationMinutes)
		assert.Equal(t, 0, *updated.DurationMinutes)
	})

	t.Run("unknown entry returns nil without an error", func(t *testing.T) {
		description := "noop"

		updated, err := service.UpdateEntry(ctx, "u1", "ghost", EntryUpdate{Description: &description})

		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("another user's entry is invisible", func(t *testing.T) {
		description := "noop"

		updated, err := service.UpdateEntry(ctx, "u2", created.ID, EntryUpdate{Description: &description})

		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestService_UpdateEntry_SettingEndTimeClosesEntry(t *testing.T) {
	service, clock := setupService(t)
	ctx := context.Background()

	started, err := service.Start(ctx, "u1", "p1", "running")
	require.NoError(t, err)

	end := clock.Add(45 * time.Minute)
	updated, err := service.UpdateEntry(ctx, "u1", started.ID, EntryUpdate{EndTime: &end})

	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.DurationMinutes)
	assert.Equal(t, 45, *updated.DurationMinutes)

	active, err := service.GetActiveEntry(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestService_DeleteEntry(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := service.AddManualEntry(ctx, "u1", "p1", "x", start, start.Add(time.Hour))
	require.NoError(t, err)

	deleted, err := service.DeleteEntry(ctx, "u2", created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = service.DeleteEntry(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.DeleteEntry(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
