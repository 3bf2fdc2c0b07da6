package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nhle/dayplan/internal/day"
)

var (
	tasksDate string

	scheduleStart string
	scheduleEnd   string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the goals of a day",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule today's reminder notifications",
	Long: `Plan today's reminders from the day window. With --start and --end the
window is changed first.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Mark overdue goals and carry unfinished ones over",
	Args:  cobra.NoArgs,
	RunE:  runReconcile,
}

func init() {
	tasksCmd.Flags().StringVar(&tasksDate, "date", "", "Day to list as YYYY-MM-DD (default today)")

	scheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "Day start as HH:MM")
	scheduleCmd.Flags().StringVar(&scheduleEnd, "end", "", "Day end as HH:MM")
	scheduleCmd.MarkFlagsRequiredTogether("start", "end")
}

func runTasks(cmd *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.Close()

	date := tasksDate
	if date == "" {
		date = day.PlanningDay(e.prefsOrDefault(), e.clock.Now())
	}
	tasks, err := e.store.GetTasksByDate(cmd.Context(), date)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSTATUS\tTITLE\n")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Status, t.Title)
	}
	return w.Flush()
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.Close()

	if scheduleStart != "" {
		if err := e.prefs.SetDaySchedule(scheduleStart, scheduleEnd); err != nil {
			return err
		}
	}

	if !e.scheduler.ScheduleDay(cmd.Context()) {
		p := e.prefsOrDefault()
		if !p.PushNotificationsEnabled {
			fmt.Fprintln(cmd.OutOrStdout(), "Notifications are turned off.")
			return nil
		}
		return fmt.Errorf("notifications were not scheduled; see the log for details")
	}

	ns, err := e.store.GetNotifications(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTIME\tCATEGORY\tTITLE\n")
	for _, n := range ns {
		fmt.Fprintf(w, "%d\t%02d:%02d\t%s\t%s\n", n.ID, n.Hour, n.Minute, n.Category, n.Title)
	}
	return w.Flush()
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.Close()

	v, err := e.reconciler.Reconcile(cmd.Context())
	if err != nil {
		return err
	}
	closed, err := e.reconciler.CloseDayIfEnded(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Today: %s, %d/%d done\n", v.Today, v.DoneCount(), len(v.Tasks))
	if v.MarkedOverdue > 0 {
		fmt.Fprintf(out, "Marked %d earlier goal(s) overdue\n", v.MarkedOverdue)
	}
	if v.Copied > 0 {
		fmt.Fprintf(out, "Carried over %d unfinished goal(s)\n", v.Copied)
	}
	if v.FallbackDate != "" {
		fmt.Fprintf(out, "Nothing planned yet; last planned day was %s\n", v.FallbackDate)
	}
	if closed {
		fmt.Fprintln(out, "Day ended; unfinished goals are now overdue")
	}
	return nil
}
