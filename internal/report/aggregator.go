package report

import (
	"context"
	"sort"
	"time"

	"timesheet/internal/query"
	"timesheet/internal/repository/sqlite"
)

// DashboardSummary is the headline aggregate for a dashboard view.
type DashboardSummary struct {
	LastActivity          *time.Time `json:"last_activity"`
	TotalMinutesThisMonth int        `json:"total_minutes_this_month"`
	TotalHoursThisMonth   float64    `json:"total_hours_this_month"`
	WeeklyHours           float64    `json:"weekly_hours"`
	PreviousWeekHours     float64    `json:"previous_week_hours"`
	WeeklyTrendPct        float64    `json:"weekly_trend_pct"`
	WorkingDays           int        `json:"working_days"`
	AverageDailyHours     float64    `json:"average_daily_hours"`
}

// DayBucket is one calendar day's minute total.
type DayBucket struct {
	Date    string `json:"date"` // 2006-01-02
	Minutes int    `json:"minutes"`
}

// ProjectBucket is one project's minute total.
type ProjectBucket struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Minutes     int    `json:"minutes"`
}

// MonthBucket is one calendar month's minute total.
type MonthBucket struct {
	Month   string `json:"month"` // 2006-01
	Minutes int    `json:"minutes"`
}

// Aggregator computes read-only aggregates over an already-authorized scope.
// It never mutates entries and never re-derives authorization; callers must
// hand it a scope produced by the query builder. All windows are computed on
// the UTC calendar, the same calendar the store uses for date comparisons.
type Aggregator struct {
	repo sqlite.Repository
	now  func() time.Time
}

// NewAggregator creates a new report aggregator.
func NewAggregator(repo sqlite.Repository) *Aggregator {
	return &Aggregator{repo: repo, now: time.Now}
}

// NewAggregatorWithClock creates an aggregator with an injected clock for tests.
func NewAggregatorWithClock(repo sqlite.Repository, now func() time.Time) *Aggregator {
	return &Aggregator{repo: repo, now: now}
}

// DashboardSummary computes the dashboard aggregate for the scope: last
// activity, month-to-date totals, Sunday-to-Saturday weekly totals with the
// week-over-week trend, and the working-day average.
func (a *Aggregator) DashboardSummary(ctx context.Context, scope *query.Scope) (*DashboardSummary, error) {
	entries, err := a.repo.EntriesInRange(ctx, scope, nil, nil)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	today := dateOf(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	prevWeekStart := weekStart.AddDate(0, 0, -7)
	prevWeekEnd := weekStart.AddDate(0, 0, -1)

	summary := &DashboardSummary{}
	monthMinutes := 0
	weekMinutes := 0
	prevWeekMinutes := 0

	for _, entry := range entries {
		if summary.LastActivity == nil || entry.StartTime.After(*summary.LastActivity) {
			started := entry.StartTime
			summary.LastActivity = &started
		}
		if entry.DurationMinutes == nil {
			continue
		}
		day := dateOf(entry.StartTime)
		if withinDays(day, monthStart, today) {
			monthMinutes += *entry.DurationMinutes
		}
		if withinDays(day, weekStart, weekEnd) {
			weekMinutes += *entry.DurationMinutes
		}
		if withinDays(day, prevWeekStart, prevWeekEnd) {
			prevWeekMinutes += *entry.DurationMinutes
		}
	}

	summary.TotalMinutesThisMonth = monthMinutes
	summary.TotalHoursThisMonth = float64(monthMinutes) / 60
	summary.WeeklyHours = float64(weekMinutes) / 60
	summary.PreviousWeekHours = float64(prevWeekMinutes) / 60
	if prevWeekMinutes > 0 {
		summary.WeeklyTrendPct = (summary.WeeklyHours - summary.PreviousWeekHours) / summary.PreviousWeekHours * 100
	}

	summary.WorkingDays = countWorkingDays(monthStart, today)
	if summary.WorkingDays > 0 {
		summary.AverageDailyHours = summary.TotalHoursThisMonth / float64(summary.WorkingDays)
	}

	return summary, nil
}

// DailyHours sums completed-entry minutes grouped by calendar day over the
// trailing window of the given length, ending today.
func (a *Aggregator) DailyHours(ctx context.Context, scope *query.Scope, days int) ([]DayBucket, error) {
	now := a.now().UTC()
	to := dateOf(now)
	from := to.AddDate(0, 0, -(days - 1))

	entries, err := a.repo.EntriesInRange(ctx, scope, &from, &to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int)
	for _, entry := range entries {
		if entry.DurationMinutes == nil {
			continue
		}
		byDay[dateOf(entry.StartTime).Format("2006-01-02")] += *entry.DurationMinutes
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for day, minutes := range byDay {
		buckets = append(buckets, DayBucket{Date: day, Minutes: minutes})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets, nil
}

// HoursByProjectCurrentMonth sums completed-entry minutes grouped by project,
// bounded to the current month.
func (a *Aggregator) HoursByProjectCurrentMonth(ctx context.Context, scope *query.Scope) ([]ProjectBucket, error) {
	now := a.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := dateOf(now)

	entries, err := a.repo.EntriesInRange(ctx, scope, &from, &to)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string]int)
	for _, entry := range entries {
		if entry.DurationMinutes == nil {
			continue
		}
		byProject[entry.ProjectID] += *entry.DurationMinutes
	}

	buckets := make([]ProjectBucket, 0, len(byProject))
	for projectID, minutes := range byProject {
		bucket := ProjectBucket{ProjectID: projectID, Minutes: minutes}
		if project, err := a.repo.GetProject(ctx, projectID); err == nil {
			bucket.ProjectName = project.Name
		}
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].ProjectName < buckets[j].ProjectName })
	return buckets, nil
}

// MonthlyBilledHours sums completed-entry minutes grouped by calendar month
// over the trailing window of the given length, including the current month.
func (a *Aggregator) MonthlyBilledHours(ctx context.Context, scope *query.Scope, months int) ([]MonthBucket, error) {
	now := a.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	to := dateOf(now)

	entries, err := a.repo.EntriesInRange(ctx, scope, &from, &to)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]int)
	for _, entry := range entries {
		if entry.DurationMinutes == nil {
			continue
		}
		byMonth[entry.StartTime.UTC().Format("2006-01")] += *entry.DurationMinutes
	}

	buckets := make([]MonthBucket, 0, len(byMonth))
	for month, minutes := range byMonth {
		buckets = append(buckets, MonthBucket{Month: month, Minutes: minutes})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })
	return buckets, nil
}

// dateOf truncates a timestamp to midnight of its UTC calendar day. Entries
// are stored as UTC timestamps and SQL date bounds compare UTC dates, so the
// in-process bucketing must land on the same day as the store's date().
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// withinDays reports whether day falls within [from, to], all at day resolution.
func withinDays(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}

// countWorkingDays counts Monday through Friday days in [from, to].
func countWorkingDays(from, to time.Time) int {
	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
