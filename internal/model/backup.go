package model

// BackupVersion is the only backup document version understood by import.
const BackupVersion = 1

// Backup is the exported JSON document.
type Backup struct {
	Version     int               `json:"version"`
	ExportDate  string            `json:"exportDate"`
	Tasks       []Task            `json:"tasks"`
	Preferences BackupPreferences `json:"preferences"`
}

// BackupPreferences holds the nine preference fields carried by a backup.
// Purchase state is never exported.
type BackupPreferences struct {
	DayStartTime             string `json:"dayStartTime"`
	DayEndTime               string `json:"dayEndTime"`
	Theme                    string `json:"theme"`
	PushNotificationsEnabled bool   `json:"pushNotificationsEnabled"`
	AutoCopyIncompleteTasks  bool   `json:"autoCopyIncompleteTasks"`
	IntroShown               bool   `json:"introShown"`
	DayScheduleConfigured    bool   `json:"dayScheduleConfigured"`
	LastPlanningDate         string `json:"lastPlanningDate"`
	LastOverdueMarkedDate    string `json:"lastOverdueMarkedDate"`
}

// BackupPreferencesFrom copies the exportable fields out of p.
func BackupPreferencesFrom(p Preferences) BackupPreferences {
	return BackupPreferences{
		DayStartTime:             p.DayStartTime,
		DayEndTime:               p.DayEndTime,
		Theme:                    p.Theme,
		PushNotificationsEnabled: p.PushNotificationsEnabled,
		AutoCopyIncompleteTasks:  p.AutoCopyIncompleteTasks,
		IntroShown:               p.IntroShown,
		DayScheduleConfigured:    p.DayScheduleConfigured,
		LastPlanningDate:         p.LastPlanningDate,
		LastOverdueMarkedDate:    p.LastOverdueMarkedDate,
	}
}

// ApplyTo overwrites the exportable fields of p, leaving purchase state alone.
func (b BackupPreferences) ApplyTo(p Preferences) Preferences {
	p.DayStartTime = b.DayStartTime
	p.DayEndTime = b.DayEndTime
	p.Theme = b.Theme
	p.PushNotificationsEnabled = b.PushNotificationsEnabled
	p.AutoCopyIncompleteTasks = b.AutoCopyIncompleteTasks
	p.IntroShown = b.IntroShown
	p.DayScheduleConfigured = b.DayScheduleConfigured
	p.LastPlanningDate = b.LastPlanningDate
	p.LastOverdueMarkedDate = b.LastOverdueMarkedDate
	return p
}
