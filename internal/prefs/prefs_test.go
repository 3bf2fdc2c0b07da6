package prefs

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/dayplan/internal/model"
)

func newTestStore() *Store {
	return New(keyring.NewArrayKeyring(nil))
}

func TestLoadDefaults(t *testing.T) {
	s := newTestStore()

	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), p)
	assert.Equal(t, "09:00", p.DayStartTime)
	assert.Equal(t, "22:00", p.DayEndTime)
	assert.Equal(t, model.ThemeSystem, p.Theme)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore()

	want := model.Preferences{
		DayStartTime:             "07:30",
		DayEndTime:               "23:15",
		Theme:                    model.ThemeDark,
		PushNotificationsEnabled: false,
		AutoCopyIncompleteTasks:  true,
		Premium:                  true,
		PremiumTier:              "lifetime",
		IntroShown:               true,
		DayScheduleConfigured:    true,
		LastPlanningDate:         "2024-05-01",
		LastOverdueMarkedDate:    "2024-04-30",
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore()

	v, ok, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, s.Delete("nope"))
}

func TestSaveRejectsInvalidValues(t *testing.T) {
	s := newTestStore()

	p := model.DefaultPreferences()
	p.DayEndTime = "25:00"
	assert.ErrorIs(t, s.Save(p), ErrInvalidPreference)

	p = model.DefaultPreferences()
	p.DayStartTime = "9:00"
	assert.ErrorIs(t, s.Save(p), ErrInvalidPreference)

	p = model.DefaultPreferences()
	p.Theme = "neon"
	assert.ErrorIs(t, s.Save(p), ErrInvalidPreference)
}

func TestLoadRejectsCorruptBool(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Set(KeyIntroShown, "maybe"))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrInvalidPreference)
}

func TestSetDaySchedule(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.SetDaySchedule("08:00", "20:00"))
	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "08:00", p.DayStartTime)
	assert.Equal(t, "20:00", p.DayEndTime)
	assert.True(t, p.DayScheduleConfigured)

	require.NoError(t, s.SetLastOverdueMarkedDate("2024-01-02"))
	require.NoError(t, s.SetLastPlanningDate("2024-01-03"))
	p, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", p.LastOverdueMarkedDate)
	assert.Equal(t, "2024-01-03", p.LastPlanningDate)
}
