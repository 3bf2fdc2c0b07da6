// Package notify plans the day's local notifications and hands them to a
// Notifier.
package notify

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
)

// Notifier is the local notification backend.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, ns []model.Notification) error
	Cancel(ctx context.Context, ids []int) error
	Pending(ctx context.Context) ([]model.Notification, error)
}

// PreferencesLoader reads the current preferences.
type PreferencesLoader interface {
	Load() (model.Preferences, error)
}

var (
	allIDs = []int{
		model.NotificationStartOfDay,
		model.NotificationEndOfDay,
		model.NotificationOneHourBefore,
		model.NotificationFirstIntermediate, 5, model.NotificationLastIntermediate,
		model.NotificationCelebration,
	}
	// progressIDs are replaced by the celebration once every goal is done.
	progressIDs = []int{model.NotificationOneHourBefore, model.NotificationFirstIntermediate, 5, model.NotificationLastIntermediate}
)

// Scheduler turns preferences into scheduled notifications. Backend
// failures are logged and reported only as a false result.
type Scheduler struct {
	notifier Notifier
	prefs    PreferencesLoader
	picker   *Picker
	clock    day.Clock
	log      *slog.Logger
}

// NewScheduler wires a scheduler. A nil logger discards output.
func NewScheduler(n Notifier, p PreferencesLoader, picker *Picker, c day.Clock, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{notifier: n, prefs: p, picker: picker, clock: c, log: log.With("component", "notify")}
}

// ScheduleDay (re)schedules the daily notifications. It returns false
// without scheduling anything when notifications are switched off or
// permission is denied.
func (s *Scheduler) ScheduleDay(ctx context.Context) bool {
	p, start, end, ok := s.prepare(ctx)
	if !ok {
		if !p.PushNotificationsEnabled {
			if err := s.notifier.Cancel(ctx, allIDs); err != nil {
				s.log.Error("cancelling notifications", "error", err)
			}
		}
		return false
	}

	today := day.PlanningDay(p, s.clock.Now())
	plan := BuildPlan(start, end)

	ns := make([]model.Notification, 0, len(plan))
	planned := make([]int, 0, len(plan))
	for _, slot := range plan {
		msg, err := s.picker.Pick(slot.Category, today)
		if err != nil {
			s.log.Error("picking notification text", "category", slot.Category, "error", err)
			return false
		}
		ns = append(ns, model.Notification{
			ID:       slot.ID,
			Category: slot.Category,
			Title:    msg.Title,
			Body:     msg.Body,
			Hour:     slot.Time.Hour,
			Minute:   slot.Time.Minute,
		})
		planned = append(planned, slot.ID)
	}

	var stale []int
	for _, id := range allIDs {
		if !slices.Contains(planned, id) {
			stale = append(stale, id)
		}
	}
	if err := s.notifier.Cancel(ctx, stale); err != nil {
		s.log.Error("cancelling notifications", "error", err)
		return false
	}
	if err := s.notifier.Schedule(ctx, ns); err != nil {
		s.log.Error("scheduling notifications", "error", err)
		return false
	}

	s.log.Debug("scheduled notifications", "count", len(ns), "start", start, "end", end)
	return true
}

// CelebrateAllComplete swaps the progress reminders for a single
// celebration at the one-hour-before slot, or right away if that slot
// already passed. Start and end of day notifications stay as they are.
func (s *Scheduler) CelebrateAllComplete(ctx context.Context) bool {
	_, start, end, ok := s.prepare(ctx)
	if !ok {
		return false
	}

	now := s.clock.Now()
	w := day.Window{Start: start, End: end}
	today := w.PlanningDay(now)
	_, dayEnd := w.Closing(now)
	at := dayEnd.Add(-oneHourBefore * time.Minute)
	if at.Before(now) {
		at = now
	}

	msg, err := s.picker.Pick(model.CategoryCelebration, today)
	if err != nil {
		s.log.Error("picking notification text", "category", model.CategoryCelebration, "error", err)
		return false
	}

	if err := s.notifier.Cancel(ctx, progressIDs); err != nil {
		s.log.Error("cancelling progress notifications", "error", err)
		return false
	}
	err = s.notifier.Schedule(ctx, []model.Notification{{
		ID:       model.NotificationCelebration,
		Category: model.CategoryCelebration,
		Title:    msg.Title,
		Body:     msg.Body,
		Hour:     at.Hour(),
		Minute:   at.Minute(),
		At:       &at,
	}})
	if err != nil {
		s.log.Error("scheduling celebration", "error", err)
		return false
	}
	return true
}

// prepare loads preferences and checks permission.
func (s *Scheduler) prepare(ctx context.Context) (model.Preferences, day.ClockTime, day.ClockTime, bool) {
	p, err := s.prefs.Load()
	if err != nil {
		s.log.Error("loading preferences", "error", err)
		return model.Preferences{PushNotificationsEnabled: true}, day.ClockTime{}, day.ClockTime{}, false
	}
	if !p.PushNotificationsEnabled {
		return p, day.ClockTime{}, day.ClockTime{}, false
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		s.log.Error("requesting notification permission", "error", err)
		return p, day.ClockTime{}, day.ClockTime{}, false
	}
	if !granted {
		s.log.Info("notification permission denied")
		return p, day.ClockTime{}, day.ClockTime{}, false
	}

	start, err := day.ParseClockTime(p.DayStartTime)
	if err != nil {
		s.log.Error("invalid day start", "error", err)
		return p, day.ClockTime{}, day.ClockTime{}, false
	}
	end, err := day.ParseClockTime(p.DayEndTime)
	if err != nil {
		s.log.Error("invalid day end", "error", err)
		return p, day.ClockTime{}, day.ClockTime{}, false
	}
	return p, start, end, true
}

// nextFire returns when n fires next on or after now's day.
func nextFire(n model.Notification, now time.Time) time.Time {
	if n.At != nil {
		return *n.At
	}
	return day.ClockTime{Hour: n.Hour, Minute: n.Minute}.On(now)
}
