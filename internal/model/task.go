package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TaskStatus is the lifecycle state of a planned goal. The numeric values
// are what the tasks table stores.
type TaskStatus int

const (
	StatusOpen    TaskStatus = 1
	StatusDone    TaskStatus = 2
	StatusOverdue TaskStatus = 3
)

// Limits applied by SanitizeTask.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000

	// MaxGoalsPerDay is a UI convention; storage does not enforce it.
	MaxGoalsPerDay = 3
)

// DateLayout is the format of a planning day.
const DateLayout = "2006-01-02"

var (
	ErrEmptyTitle    = errors.New("task title must not be empty")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrInvalidDate   = errors.New("invalid planning date")
)

// Task is a single goal for one planning day.
type Task struct {
	// ID is assigned by storage on insert.
	ID int64 `json:"id" db:"id"`

	// Title is the short goal text.
	Title string `json:"title" db:"title"`

	// Description holds optional notes for the goal.
	Description string `json:"description" db:"description"`

	// Status is one of the Status* constants.
	Status TaskStatus `json:"status" db:"status"`

	// CreationDate is the planning day (YYYY-MM-DD) the task belongs to.
	// It is never rewritten after insert.
	CreationDate string `json:"creation_date" db:"creation_date"`

	// Active is always 1.
	Active int `json:"active" db:"active"`
}

// IsDone reports whether the task reached its terminal state.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// String returns the lowercase name of the status.
func (s TaskStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusDone:
		return "done"
	case StatusOverdue:
		return "overdue"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s >= StatusOpen && s <= StatusOverdue
}

// ParseTaskStatus accepts either the name ("open") or the numeric encoding ("1").
func ParseTaskStatus(v string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "open", "1":
		return StatusOpen, nil
	case "done", "2":
		return StatusDone, nil
	case "overdue", "3":
		return StatusOverdue, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

// SanitizeTask normalizes user input before it reaches storage.
// A zero status defaults to StatusOpen and Active is forced to 1.
func SanitizeTask(t Task) (Task, error) {
	t, err := SanitizeContent(t)
	if err != nil {
		return Task{}, err
	}
	if _, err := ParseDate(t.CreationDate); err != nil {
		return Task{}, err
	}
	t.Active = 1
	return t, nil
}

// SanitizeContent cleans the user-editable fields and leaves the planning
// day as it is.
func SanitizeContent(t Task) (Task, error) {
	t.Title = truncateRunes(stripControl(strings.TrimSpace(t.Title), false), MaxTitleLength)
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return Task{}, ErrEmptyTitle
	}
	t.Description = truncateRunes(stripControl(strings.TrimSpace(t.Description), true), MaxDescriptionLength)

	if t.Status == 0 {
		t.Status = StatusOpen
	}
	if !t.Status.Valid() {
		return Task{}, fmt.Errorf("%w: %d", ErrInvalidStatus, int(t.Status))
	}
	return t, nil
}

// DateString formats t as a local planning-day string.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD planning day in the local time zone.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func stripControl(s string, keepLines bool) string {
	return strings.Map(func(r rune) rune {
		if keepLines && (r == '\n' || r == '\t') {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
