package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
)

// prefsLoadedMsg carries the preferences read at startup.
type prefsLoadedMsg struct {
	prefs model.Preferences
	err   error
}

// prefsSavedMsg is sent after a settings key changed a preference.
type prefsSavedMsg struct {
	prefs      model.Preferences
	status     string
	reschedule bool
	err        error
}

// reconciledMsg carries the reconciled day.
type reconciledMsg struct {
	view day.View
	err  error
}

// tasksChangedMsg is sent after any write to today's goals.
type tasksChangedMsg struct {
	status string
	err    error
}

// dayClosedMsg reports the end-of-day sweep.
type dayClosedMsg struct {
	closed bool
	err    error
}

// backupDoneMsg reports an export or import run from the command palette.
type backupDoneMsg struct {
	status   string
	imported bool
	err      error
}

// dueMsg carries notifications whose time has come.
type dueMsg struct {
	due []model.Notification
	err error
}

type scheduledMsg struct{ ok bool }

type celebratedMsg struct{ ok bool }

func (m Model) loadPrefs() tea.Cmd {
	p := m.deps.Prefs
	return func() tea.Msg {
		prefs, err := p.Load()
		return prefsLoadedMsg{prefs: prefs, err: err}
	}
}

func (m Model) savePrefs(next model.Preferences, status string, reschedule bool) tea.Cmd {
	p := m.deps.Prefs
	return func() tea.Msg {
		if err := p.Save(next); err != nil {
			return prefsSavedMsg{err: fmt.Errorf("saving preferences: %w", err)}
		}
		return prefsSavedMsg{prefs: next, status: status, reschedule: reschedule}
	}
}

func (m Model) reconcile() tea.Cmd {
	r := m.deps.Reconciler
	return func() tea.Msg {
		v, err := r.Reconcile(context.Background())
		return reconciledMsg{view: v, err: err}
	}
}

func (m Model) closeDay() tea.Cmd {
	r := m.deps.Reconciler
	return func() tea.Msg {
		closed, err := r.CloseDayIfEnded(context.Background())
		return dayClosedMsg{closed: closed, err: err}
	}
}

func (m Model) dispatch(now time.Time) tea.Cmd {
	d := m.deps.Dispatcher
	return func() tea.Msg {
		due, err := d.Due(context.Background(), now)
		if err != nil || len(due) > 0 {
			return dueMsg{due: due, err: err}
		}
		return nil
	}
}

func (m Model) scheduleDay() tea.Cmd {
	s := m.deps.Scheduler
	return func() tea.Msg {
		return scheduledMsg{ok: s.ScheduleDay(context.Background())}
	}
}

func (m Model) celebrate() tea.Cmd {
	s := m.deps.Scheduler
	return func() tea.Msg {
		return celebratedMsg{ok: s.CelebrateAllComplete(context.Background())}
	}
}

// completeTask marks an open or overdue goal done. Done is final, so a
// done goal is left alone.
func (m Model) completeTask(t model.Task) tea.Cmd {
	if t.IsDone() {
		return nil
	}
	s := m.deps.Store
	return func() tea.Msg {
		t.Status = model.StatusDone
		if err := s.UpdateTask(context.Background(), t); err != nil {
			return tasksChangedMsg{err: fmt.Errorf("updating goal: %w", err)}
		}
		return tasksChangedMsg{}
	}
}

func (m Model) deleteTask(t model.Task) tea.Cmd {
	s := m.deps.Store
	return func() tea.Msg {
		if err := s.DeleteTaskByID(context.Background(), t.ID); err != nil {
			return tasksChangedMsg{err: fmt.Errorf("deleting goal: %w", err)}
		}
		return tasksChangedMsg{status: fmt.Sprintf("Deleted %q", t.Title)}
	}
}

func (m Model) planDay(goals []model.Task) tea.Cmd {
	r := m.deps.Reconciler
	return func() tea.Msg {
		n, err := r.PlanDay(context.Background(), goals)
		if err != nil {
			return tasksChangedMsg{err: fmt.Errorf("planning the day: %w", err)}
		}
		return tasksChangedMsg{status: fmt.Sprintf("Planned %d goal(s)", n)}
	}
}

// copyFrom carries the goals of date over to today.
func (m Model) copyFrom(date string, all bool) tea.Cmd {
	s := m.deps.Store
	today := day.PlanningDay(m.prefs, m.deps.Clock.Now())
	return func() tea.Msg {
		ctx := context.Background()
		var (
			n   int
			err error
		)
		if all {
			n, err = s.CopyAllTasksFromDateToToday(ctx, date, today)
		} else {
			n, err = s.CopyUndoneTasksFromDateToToday(ctx, date, today)
		}
		if err != nil {
			return tasksChangedMsg{err: fmt.Errorf("copying goals from %s: %w", date, err)}
		}
		if n > 0 {
			if err := m.deps.Prefs.SetLastPlanningDate(today); err != nil {
				return tasksChangedMsg{err: err}
			}
		}
		return tasksChangedMsg{status: fmt.Sprintf("Copied %d goal(s) from %s", n, date)}
	}
}

// exportBackup writes a backup into the cache directory.
func (m Model) exportBackup(password string) tea.Cmd {
	svc, files := m.deps.Backup, m.deps.Files
	return func() tea.Msg {
		data, err := svc.ExportJSON(context.Background(), password)
		if err != nil {
			return backupDoneMsg{err: err}
		}
		path, err := files.WriteToCache(data)
		if err != nil {
			return backupDoneMsg{err: err}
		}
		return backupDoneMsg{status: "Exported to " + path}
	}
}

// importBackup replaces every goal and the exported preferences with the
// contents of path.
func (m Model) importBackup(path, password string) tea.Cmd {
	svc, files := m.deps.Backup, m.deps.Files
	return func() tea.Msg {
		data, err := files.ReadFile(path)
		if err != nil {
			return backupDoneMsg{err: err}
		}
		res, err := svc.Import(context.Background(), data, password)
		if err != nil {
			return backupDoneMsg{err: fmt.Errorf("importing %s: %w", path, err)}
		}
		return backupDoneMsg{
			status:   fmt.Sprintf("Imported %d goal(s)", res.Tasks),
			imported: true,
		}
	}
}
