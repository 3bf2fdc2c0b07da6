// Package prefs is the key-value settings store. Values are strings kept in
// a keyring; typed access goes through Load and Save.
package prefs

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/99designs/keyring"

	"github.com/nhle/dayplan/internal/model"
)

// Preference keys.
const (
	KeyDayStartTime             = "day_start_time"
	KeyDayEndTime               = "day_end_time"
	KeyTheme                    = "theme"
	KeyPushNotificationsEnabled = "push_notifications_enabled"
	KeyAutoCopyIncompleteTasks  = "auto_copy_incomplete_tasks"
	KeyPremium                  = "premium"
	KeyPremiumTier              = "premium_tier"
	KeyIntroShown               = "intro_shown"
	KeyDayScheduleConfigured    = "day_schedule_configured"
	KeyLastPlanningDate         = "last_planning_date"
	KeyLastOverdueMarkedDate    = "last_overdue_marked_date"
	KeyNotificationHistory      = "notification_history"
)

// ErrInvalidPreference is returned when a value fails validation.
var ErrInvalidPreference = errors.New("invalid preference")

// Store reads and writes preferences.
type Store struct {
	ring keyring.Keyring
}

// New wraps ring.
func New(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get returns the raw value for key; ok is false when it was never set.
func (s *Store) Get(key string) (string, bool, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("getting preference %q: %w", key, err)
	}
	return string(item.Data), true, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "dayplan " + key,
	})
	if err != nil {
		return fmt.Errorf("setting preference %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting preference %q: %w", key, err)
	}
	return nil
}

// Load returns every preference, with defaults for unset keys.
func (s *Store) Load() (model.Preferences, error) {
	p := model.DefaultPreferences()

	strs := map[string]*string{
		KeyDayStartTime:          &p.DayStartTime,
		KeyDayEndTime:            &p.DayEndTime,
		KeyTheme:                 &p.Theme,
		KeyPremiumTier:           &p.PremiumTier,
		KeyLastPlanningDate:      &p.LastPlanningDate,
		KeyLastOverdueMarkedDate: &p.LastOverdueMarkedDate,
	}
	for key, dst := range strs {
		v, ok, err := s.Get(key)
		if err != nil {
			return p, err
		}
		if ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		KeyPushNotificationsEnabled: &p.PushNotificationsEnabled,
		KeyAutoCopyIncompleteTasks:  &p.AutoCopyIncompleteTasks,
		KeyPremium:                  &p.Premium,
		KeyIntroShown:               &p.IntroShown,
		KeyDayScheduleConfigured:    &p.DayScheduleConfigured,
	}
	for key, dst := range bools {
		v, ok, err := s.Get(key)
		if err != nil {
			return p, err
		}
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, fmt.Errorf("%w: %s=%q", ErrInvalidPreference, key, v)
		}
		*dst = b
	}

	return p, nil
}

// Save validates p and writes every field.
func (s *Store) Save(p model.Preferences) error {
	if err := Validate(p); err != nil {
		return err
	}

	values := []struct{ key, value string }{
		{KeyDayStartTime, p.DayStartTime},
		{KeyDayEndTime, p.DayEndTime},
		{KeyTheme, p.Theme},
		{KeyPushNotificationsEnabled, strconv.FormatBool(p.PushNotificationsEnabled)},
		{KeyAutoCopyIncompleteTasks, strconv.FormatBool(p.AutoCopyIncompleteTasks)},
		{KeyPremium, strconv.FormatBool(p.Premium)},
		{KeyPremiumTier, p.PremiumTier},
		{KeyIntroShown, strconv.FormatBool(p.IntroShown)},
		{KeyDayScheduleConfigured, strconv.FormatBool(p.DayScheduleConfigured)},
		{KeyLastPlanningDate, p.LastPlanningDate},
		{KeyLastOverdueMarkedDate, p.LastOverdueMarkedDate},
	}
	for _, kv := range values {
		if err := s.Set(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

// SetDaySchedule stores a new day window and marks the schedule configured.
func (s *Store) SetDaySchedule(start, end string) error {
	p, err := s.Load()
	if err != nil {
		return err
	}
	p.DayStartTime = start
	p.DayEndTime = end
	p.DayScheduleConfigured = true
	return s.Save(p)
}

// SetLastOverdueMarkedDate records the planning day whose end-of-day sweep ran.
func (s *Store) SetLastOverdueMarkedDate(date string) error {
	return s.Set(KeyLastOverdueMarkedDate, date)
}

// SetLastPlanningDate records the last day the user planned goals for.
func (s *Store) SetLastPlanningDate(date string) error {
	return s.Set(KeyLastPlanningDate, date)
}

// Validate checks the clock times and theme of p.
func Validate(p model.Preferences) error {
	for _, v := range []string{p.DayStartTime, p.DayEndTime} {
		if _, err := time.Parse("15:04", v); err != nil || len(v) != 5 {
			return fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidPreference, v)
		}
	}
	if !model.ValidTheme(p.Theme) {
		return fmt.Errorf("%w: theme %q", ErrInvalidPreference, p.Theme)
	}
	return nil
}
