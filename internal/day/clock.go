// Package day derives the planning day and its lifecycle from the wall
// clock and the stored preferences.
package day

import (
	"fmt"
	"time"

	"github.com/nhle/dayplan/internal/model"
)

// Clock abstracts time.Now.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// MinutesPerDay is the length of a day on the 24h clock.
const MinutesPerDay = 24 * 60

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" on the 24h clock.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("parsing clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// FromMinutes builds a ClockTime from minutes after midnight, wrapping
// around the day in both directions.
func FromMinutes(m int) ClockTime {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return ClockTime{Hour: m / 60, Minute: m % 60}
}

// Minutes returns minutes after midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// On returns the instant c on the calendar day of date, in date's location.
func (c ClockTime) On(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, date.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Today returns the calendar date of now.
func Today(now time.Time) string {
	return model.DateString(now)
}

// Window is the configured day. An End that is not after Start runs past
// midnight into the next calendar day.
type Window struct {
	Start ClockTime
	End   ClockTime
}

// WindowOf parses the day start and end from p.
func WindowOf(p model.Preferences) (Window, error) {
	start, err := ParseClockTime(p.DayStartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClockTime(p.DayEndTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// Overnight reports whether the window crosses midnight.
func (w Window) Overnight() bool {
	return w.End.Minutes() <= w.Start.Minutes()
}

// PlanningDay returns the day now belongs to. Until an overnight window
// ends, the hours after midnight still belong to the day it started on.
func (w Window) PlanningDay(now time.Time) string {
	if w.Overnight() && now.Before(w.End.On(now)) {
		return Today(now.AddDate(0, 0, -1))
	}
	return Today(now)
}

// Closing returns the day whose end is the next to come or the last to have
// passed at now, together with that end instant.
func (w Window) Closing(now time.Time) (string, time.Time) {
	if !w.Overnight() {
		return Today(now), w.End.On(now)
	}
	if now.Before(w.Start.On(now)) {
		return Today(now.AddDate(0, 0, -1)), w.End.On(now)
	}
	return Today(now), w.End.On(now.AddDate(0, 0, 1))
}

// PlanningDay returns the planning day of now under p. A schedule that does
// not parse falls back to the calendar date.
func PlanningDay(p model.Preferences, now time.Time) string {
	w, err := WindowOf(p)
	if err != nil {
		return Today(now)
	}
	return w.PlanningDay(now)
}
