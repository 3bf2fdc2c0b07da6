package day

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/store"
)

// Preferences is the part of the preferences store the lifecycle needs.
type Preferences interface {
	Load() (model.Preferences, error)
	SetLastOverdueMarkedDate(date string) error
	SetLastPlanningDate(date string) error
}

// View is the reconciled state of the current planning day.
type View struct {
	// Today is the current planning day.
	Today string

	// Tasks are today's tasks, ordered by id.
	Tasks []model.Task

	// NeedsPlanning is true when today has no tasks yet.
	NeedsPlanning bool

	// FallbackDate and FallbackTasks hold the most recent planned day when
	// today is empty.
	FallbackDate  string
	FallbackTasks []model.Task

	// MarkedOverdue counts tasks of earlier days flagged by this pass.
	MarkedOverdue int64

	// Copied counts tasks carried over by the auto-copy preference.
	Copied int
}

// AllDone reports whether today has tasks and every one of them is Done.
func (v View) AllDone() bool {
	if len(v.Tasks) == 0 {
		return false
	}
	for _, t := range v.Tasks {
		if !t.IsDone() {
			return false
		}
	}
	return true
}

// DoneCount returns how many of today's tasks are Done.
func (v View) DoneCount() int {
	n := 0
	for _, t := range v.Tasks {
		if t.IsDone() {
			n++
		}
	}
	return n
}

// Reconciler rebuilds the day state from storage, preferences and the clock.
type Reconciler struct {
	store store.Store
	prefs Preferences
	clock Clock
	log   *slog.Logger
}

// NewReconciler wires a reconciler. A nil logger discards output.
func NewReconciler(s store.Store, p Preferences, c Clock, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{store: s, prefs: p, clock: c, log: log.With("component", "day")}
}

// Reconcile flags earlier unfinished tasks as overdue and loads today's
// tasks. Running it again without new writes changes nothing.
func (r *Reconciler) Reconcile(ctx context.Context) (View, error) {
	p, err := r.prefs.Load()
	if err != nil {
		return View{}, fmt.Errorf("loading preferences: %w", err)
	}
	today := PlanningDay(p, r.clock.Now())
	v := View{Today: today}

	marked, err := r.store.MarkPreviousIncompleteTasksAsOverdue(ctx, today)
	if err != nil {
		return v, fmt.Errorf("reconciling %s: %w", today, err)
	}
	v.MarkedOverdue = marked
	if marked > 0 {
		r.log.Info("marked earlier tasks overdue", "count", marked, "before", today)
	}

	v.Tasks, err = r.store.GetTasksByDate(ctx, today)
	if err != nil {
		return v, fmt.Errorf("loading tasks for %s: %w", today, err)
	}
	if len(v.Tasks) > 0 {
		return v, nil
	}

	last, ok, err := r.store.GetMostRecentDateWithTasks(ctx, today)
	if err != nil {
		return v, fmt.Errorf("finding last planned day: %w", err)
	}
	if !ok {
		v.NeedsPlanning = true
		return v, nil
	}

	if p.AutoCopyIncompleteTasks {
		n, err := r.store.CopyUndoneTasksFromDateToToday(ctx, last, today)
		if err != nil {
			return v, fmt.Errorf("carrying tasks over from %s: %w", last, err)
		}
		if n > 0 {
			r.log.Info("carried over unfinished tasks", "count", n, "from", last, "to", today)
			if err := r.prefs.SetLastPlanningDate(today); err != nil {
				r.log.Warn("recording planning date", "error", err)
			}
			v.Copied = n
			v.Tasks, err = r.store.GetTasksByDate(ctx, today)
			if err != nil {
				return v, fmt.Errorf("loading tasks for %s: %w", today, err)
			}
			return v, nil
		}
	}

	v.NeedsPlanning = true
	v.FallbackDate = last
	v.FallbackTasks, err = r.store.GetTasksByDate(ctx, last)
	if err != nil {
		return v, fmt.Errorf("loading tasks for %s: %w", last, err)
	}
	return v, nil
}

// CloseDayIfEnded flags the unfinished tasks of the day that just ended as
// overdue once its end time has passed. A window that runs past midnight
// closes on the following calendar day. It runs at most once per planning
// day.
func (r *Reconciler) CloseDayIfEnded(ctx context.Context) (bool, error) {
	now := r.clock.Now()

	p, err := r.prefs.Load()
	if err != nil {
		return false, fmt.Errorf("loading preferences: %w", err)
	}
	w, err := WindowOf(p)
	if err != nil {
		return false, err
	}
	date, end := w.Closing(now)
	if now.Before(end) || p.LastOverdueMarkedDate >= date {
		return false, nil
	}

	n, err := r.store.MarkIncompleteTasksForDateAsOverdue(ctx, date)
	if err != nil {
		return false, fmt.Errorf("closing %s: %w", date, err)
	}
	if err := r.prefs.SetLastOverdueMarkedDate(date); err != nil {
		return false, fmt.Errorf("recording end of %s: %w", date, err)
	}
	r.log.Info("day ended", "date", date, "overdue", n)
	return true, nil
}

// PlanDay stores up to MaxGoalsPerDay goals for today and records the
// planning date. Blank titles are skipped.
func (r *Reconciler) PlanDay(ctx context.Context, goals []model.Task) (int, error) {
	p, err := r.prefs.Load()
	if err != nil {
		return 0, fmt.Errorf("loading preferences: %w", err)
	}
	today := PlanningDay(p, r.clock.Now())

	existing, err := r.store.GetTasksByDate(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("loading tasks for %s: %w", today, err)
	}
	room := model.MaxGoalsPerDay - len(existing)

	added := 0
	for _, g := range goals {
		if added >= room {
			break
		}
		g.ID = 0
		g.CreationDate = today
		g.Status = model.StatusOpen
		if _, err := r.store.AddTask(ctx, g); err != nil {
			if errors.Is(err, model.ErrEmptyTitle) {
				continue
			}
			return added, err
		}
		added++
	}

	if added > 0 {
		if err := r.prefs.SetLastPlanningDate(today); err != nil {
			return added, err
		}
	}
	return added, nil
}
