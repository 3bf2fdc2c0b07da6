package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/dayplan/internal/model"
)

func TestResultKeepsUnshownFields(t *testing.T) {
	base := model.DefaultPreferences()
	base.Premium = true
	base.LastPlanningDate = "2024-03-09"

	m := New(80, 24)
	m.Start(base)
	m.values.theme = model.ThemeDark
	m.values.autoCopy = true

	got := m.result()
	assert.False(t, got.ScheduleChanged)
	assert.Equal(t, model.ThemeDark, got.Prefs.Theme)
	assert.True(t, got.Prefs.AutoCopyIncompleteTasks)
	assert.True(t, got.Prefs.Premium)
	assert.Equal(t, "2024-03-09", got.Prefs.LastPlanningDate)
	assert.False(t, got.Prefs.DayScheduleConfigured)
}

func TestResultMarksScheduleConfigured(t *testing.T) {
	m := New(80, 24)
	m.Start(model.DefaultPreferences())
	m.values.start = " 07:30 "

	got := m.result()
	assert.True(t, got.ScheduleChanged)
	assert.Equal(t, "07:30", got.Prefs.DayStartTime)
	assert.True(t, got.Prefs.DayScheduleConfigured)
}

func TestValidateClock(t *testing.T) {
	assert.NoError(t, validateClock("09:00"))
	assert.NoError(t, validateClock("23:59"))
	assert.Error(t, validateClock("9:00"))
	assert.Error(t, validateClock("24:00"))
	assert.Error(t, validateClock("noon"))
}
