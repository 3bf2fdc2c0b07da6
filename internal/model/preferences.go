package model

// Theme choices for the terminal UI.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Default day window.
const (
	DefaultDayStartTime = "09:00"
	DefaultDayEndTime   = "22:00"
)

// Preferences is the flat set of user settings persisted in the
// preferences store.
type Preferences struct {
	DayStartTime             string `json:"dayStartTime"`
	DayEndTime               string `json:"dayEndTime"`
	Theme                    string `json:"theme"`
	PushNotificationsEnabled bool   `json:"pushNotificationsEnabled"`
	AutoCopyIncompleteTasks  bool   `json:"autoCopyIncompleteTasks"`
	Premium                  bool   `json:"-"`
	PremiumTier              string `json:"-"`
	IntroShown               bool   `json:"introShown"`
	DayScheduleConfigured    bool   `json:"dayScheduleConfigured"`
	LastPlanningDate         string `json:"lastPlanningDate"`
	LastOverdueMarkedDate    string `json:"lastOverdueMarkedDate"`
}

// DefaultPreferences returns the settings of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		DayStartTime:             DefaultDayStartTime,
		DayEndTime:               DefaultDayEndTime,
		Theme:                    ThemeSystem,
		PushNotificationsEnabled: true,
	}
}

// ValidTheme reports whether theme is one of the supported values.
func ValidTheme(theme string) bool {
	switch theme {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}
