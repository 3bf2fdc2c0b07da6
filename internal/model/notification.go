package model

import "time"

// NotificationCategory groups notifications that share a message pool.
type NotificationCategory string

const (
	CategoryStartOfDay    NotificationCategory = "start_of_day"
	CategoryIntermediate  NotificationCategory = "intermediate"
	CategoryOneHourBefore NotificationCategory = "one_hour_before"
	CategoryEndOfDay      NotificationCategory = "end_of_day"
	CategoryCelebration   NotificationCategory = "celebration"
)

// Fixed notification identifiers.
const (
	NotificationStartOfDay    = 1
	NotificationEndOfDay      = 2
	NotificationOneHourBefore = 3
	// Intermediate reminders use ids 4..6.
	NotificationFirstIntermediate = 4
	NotificationLastIntermediate  = 6
	NotificationCelebration       = 7
)

// Notification is a local notification handed to the scheduler.
// Repeating notifications fire daily at Hour:Minute; one-shot
// notifications set At instead.
type Notification struct {
	// ID is one of the Notification* identifiers.
	ID int `json:"id" db:"id"`

	// Category selects the message pool the text was drawn from.
	Category NotificationCategory `json:"category" db:"category"`

	Title string `json:"title" db:"title"`
	Body  string `json:"body" db:"body"`

	// Hour and Minute are the daily firing time for repeating notifications.
	Hour   int `json:"hour" db:"hour"`
	Minute int `json:"minute" db:"minute"`

	// At is set for one-shot notifications.
	At *time.Time `json:"at,omitempty" db:"-"`

	// LastFiredDate is the planning day the notification last fired on.
	LastFiredDate string `json:"-" db:"last_fired_date"`
}

// Repeating reports whether the notification fires every day.
func (n Notification) Repeating() bool {
	return n.At == nil
}
