package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"timesheet/internal/config"
	"timesheet/internal/query"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	app    *App
	config *config.Config

	// Global principal flags
	actingUser string
	claimRoles []string
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(app *App, cfg *config.Config) *RootCommand {
	root := &RootCommand{
		app:    app,
		config: cfg,
	}

	root.cmd = &cobra.Command{
		Use:   "tsc",
		Short: "A multi-user time tracking engine",
		Long: `Timesheet (tsc) tracks working time per user and project.

Every command acts on behalf of a principal (--user). What a principal may
list or report on is decided by their roles: regular users see their own
entries, managers additionally see their direct reports, HR and admins see
everyone. Roles asserted with --role override the role stored for the user.

EXAMPLES:
  tsc --user u1 start --project p1 --note "feature work"
  tsc --user u1 stop
  tsc --user u1 add --project p1 --from 2024-01-01T10:00:00Z --to 2024-01-01T12:00:00Z
  tsc --user hr1 list --users all --sort duration --order asc
  tsc --user m1 report daily --targets u1,u2 --days 7

CONFIGURATION:
  TSC_DB_DIR                  Database directory (default: ~/.tsc)
  TSC_DB_FILENAME             Database filename (default: timesheet.db)
  TSC_PAGE_DEFAULT_LIMIT      Default listing page size (default: 10)
  TSC_PAGE_MAX_LIMIT          Maximum listing page size (default: 100)
  TSC_APP_TIMEOUT             Command timeout (default: 60s)
  TSC_DEBUG                   Enable debug output when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// addGlobalFlags adds global principal and configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()
	flags.StringVarP(&r.actingUser, "user", "u", "", "Acting user id (required)")
	flags.StringSliceVar(&r.claimRoles, "role", nil, "Asserted role claim, overrides the stored role (repeatable)")
}

// commandContext returns a context bounded by the configured app timeout.
func (r *RootCommand) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.config.Application.Timeout)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	var projectID, note string

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a timer",
		Long:  "Start a running entry for the acting user. Fails if a timer is already running.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			entry, err := r.app.StartTimer(ctx, r.actingUser, projectID, note)
			if err != nil {
				return err
			}
			fmt.Printf("started %s at %s\n", entry.ID, entry.StartTime.Format(time.RFC3339))
			return nil
		},
	}
	startCmd.Flags().StringVarP(&projectID, "project", "p", "", "Project id")
	startCmd.Flags().StringVarP(&note, "note", "n", "", "Entry description")

	var stopEntryID string
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			entry, err := r.app.StopTimer(ctx, r.actingUser, stopEntryID)
			if err != nil {
				return err
			}
			fmt.Printf("stopped %s (%d minutes)\n", entry.ID, *entry.DurationMinutes)
			return nil
		},
	}
	stopCmd.Flags().StringVar(&stopEntryID, "entry", "", "Stop only this entry id")

	pauseCmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause the running timer (same as stop, timers cannot be resumed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			entry, err := r.app.PauseTimer(ctx, r.actingUser)
			if err != nil {
				return err
			}
			fmt.Printf("paused %s (%d minutes)\n", entry.ID, *entry.DurationMinutes)
			return nil
		},
	}

	var addProject, addNote, addFrom, addTo string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a completed entry",
		Long:  "Record a completed block of work with explicit start and end times (RFC3339).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			startTime, err := time.Parse(time.RFC3339, addFrom)
			if err != nil {
				return fmt.Errorf("invalid --from time: %w", err)
			}
			endTime, err := time.Parse(time.RFC3339, addTo)
			if err != nil {
				return fmt.Errorf("invalid --to time: %w", err)
			}

			entry, err := r.app.AddEntry(ctx, r.actingUser, addProject, addNote, startTime, endTime)
			if err != nil {
				return err
			}
			fmt.Printf("added %s (%d minutes)\n", entry.ID, *entry.DurationMinutes)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&addProject, "project", "p", "", "Project id")
	addCmd.Flags().StringVarP(&addNote, "note", "n", "", "Entry description")
	addCmd.Flags().StringVar(&addFrom, "from", "", "Start time (RFC3339)")
	addCmd.Flags().StringVar(&addTo, "to", "", "End time (RFC3339)")

	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Show the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			entry, err := r.app.CurrentEntry(ctx, r.actingUser)
			if err != nil {
				return err
			}
			if entry == nil {
				fmt.Println("no running timer")
				return nil
			}
			fmt.Printf("%s on %s since %s\n", entry.ID, entry.ProjectID, entry.StartTime.Format(time.RFC3339))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [entry id]",
		Short: "Delete one of your entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			deleted, err := r.app.DeleteEntry(ctx, r.actingUser, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Println("entry not found")
				return nil
			}
			fmt.Println("entry deleted")
			return nil
		},
	}

	var listUsers, listSearch, listSort, listOrder string
	var listProjects []string
	var listFrom, listTo string
	var listPage, listLimit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List time entries",
		Long: `List time entries within your authorized scope.

--users accepts "all" (requires the view-all permission), a comma-separated
id list (each foreign id is checked against your role and direct reports),
or nothing to list your own entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			filters := query.Filters{
				Search:    listSearch,
				Projects:  listProjects,
				SortBy:    listSort,
				SortOrder: listOrder,
				Page:      listPage,
				Limit:     listLimit,
			}
			filters.AllUsers, filters.Users = query.ParseUserFilter(listUsers)

			if listFrom != "" {
				from, err := time.Parse("2006-01-02", listFrom)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				filters.DateFrom = &from
			}
			if listTo != "" {
				to, err := time.Parse("2006-01-02", listTo)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				filters.DateTo = &to
			}

			result, err := r.app.ListEntries(ctx, r.actingUser, r.claimRoles, filters)
			if err != nil {
				return err
			}

			fmt.Printf("%d entries (page %d, %d total)\n", len(result.Entries), result.Page, result.Total)
			for _, entry := range result.Entries {
				minutes := "-"
				if entry.DurationMinutes != nil {
					minutes = fmt.Sprintf("%dm", *entry.DurationMinutes)
				}
				fmt.Printf("%s  %s  %s  %s  %s\n", entry.ID, entry.UserID, entry.ProjectID,
					entry.StartTime.Format("2006-01-02 15:04"), minutes)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&listUsers, "users", "", `User filter: "all", a comma-separated id list, or empty for yourself`)
	listCmd.Flags().StringVar(&listSearch, "search", "", "Substring match on description, project, and client names")
	listCmd.Flags().StringSliceVar(&listProjects, "projects", nil, "Restrict to the named projects")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Start date (2006-01-02, inclusive)")
	listCmd.Flags().StringVar(&listTo, "to", "", "End date (2006-01-02, inclusive)")
	listCmd.Flags().StringVar(&listSort, "sort", "date", "Sort key: date, duration, project")
	listCmd.Flags().StringVar(&listOrder, "order", "desc", "Sort order: asc, desc")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Page size")

	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "List known projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			projects, err := r.app.ListProjects(ctx)
			if err != nil {
				return err
			}
			for _, project := range projects {
				fmt.Printf("%s  %s\n", project.ID, project.Name)
			}
			return nil
		},
	}

	r.cmd.AddCommand(startCmd, stopCmd, pauseCmd, addCmd, currentCmd, deleteCmd, listCmd, projectsCmd, r.reportCommand())
}

// reportCommand groups the aggregate views.
func (r *RootCommand) reportCommand() *cobra.Command {
	var targetsFlag string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate reports",
		Long: `Aggregate reports over your authorized scope.

--targets selects the users to aggregate; empty means yourself. Requesting
other users requires the view-all permission or manager delegation over every
requested id.`,
	}
	reportCmd.PersistentFlags().StringVar(&targetsFlag, "targets", "", "Comma-separated target user ids")

	targets := func() []string {
		_, users := query.ParseUserFilter(targetsFlag)
		return users
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			summary, err := r.app.Dashboard(ctx, r.actingUser, r.claimRoles, targets())
			if err != nil {
				return err
			}
			if summary.LastActivity != nil {
				fmt.Printf("last activity:   %s\n", summary.LastActivity.Format(time.RFC3339))
			}
			fmt.Printf("month to date:   %.2fh\n", summary.TotalHoursThisMonth)
			fmt.Printf("this week:       %.2fh\n", summary.WeeklyHours)
			fmt.Printf("previous week:   %.2fh (%+.1f%%)\n", summary.PreviousWeekHours, summary.WeeklyTrendPct)
			fmt.Printf("daily average:   %.2fh over %d working days\n", summary.AverageDailyHours, summary.WorkingDays)
			return nil
		},
	}

	var days int
	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Per-day totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			buckets, err := r.app.DailyHours(ctx, r.actingUser, r.claimRoles, targets(), days)
			if err != nil {
				return err
			}
			for _, bucket := range buckets {
				fmt.Printf("%s  %dm\n", bucket.Date, bucket.Minutes)
			}
			return nil
		},
	}
	dailyCmd.Flags().IntVar(&days, "days", 7, "Window length in days")

	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Per-project totals for the current month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			buckets, err := r.app.ProjectHours(ctx, r.actingUser, r.claimRoles, targets())
			if err != nil {
				return err
			}
			for _, bucket := range buckets {
				fmt.Printf("%s  %dm\n", bucket.ProjectName, bucket.Minutes)
			}
			return nil
		},
	}

	var months int
	monthlyCmd := &cobra.Command{
		Use:   "monthly",
		Short: "Per-month billed totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext()
			defer cancel()

			buckets, err := r.app.MonthlyHours(ctx, r.actingUser, r.claimRoles, targets(), months)
			if err != nil {
				return err
			}
			for _, bucket := range buckets {
				fmt.Printf("%s  %dm\n", bucket.Month, bucket.Minutes)
			}
			return nil
		},
	}
	monthlyCmd.Flags().IntVar(&months, "months", 6, "Window length in months")

	reportCmd.AddCommand(dashboardCmd, dailyCmd, projectsCmd, monthlyCmd)
	return reportCmd
}
