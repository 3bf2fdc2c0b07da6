package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/theme"
)

// SettingsSavedMsg carries the edited preferences. Fields the form does not
// show are copied from the preferences the form was opened with.
type SettingsSavedMsg struct {
	Prefs model.Preferences

	// ScheduleChanged is true when the day window differs from before.
	ScheduleChanged bool
}

// SettingsCancelledMsg is dispatched when the form is aborted.
type SettingsCancelledMsg struct{}

// fields holds the form values. huh binds to these pointers, so they live
// on the heap and survive model copies.
type fields struct {
	start         string
	end           string
	theme         string
	notifications bool
	autoCopy      bool
}

// Model edits the day window, theme and notification switches.
type Model struct {
	form   *huh.Form
	values *fields
	base   model.Preferences
	width  int
	height int
}

// New creates a closed settings form.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// Start opens the form prefilled from p.
func (m *Model) Start(p model.Preferences) tea.Cmd {
	m.base = p
	m.values = &fields{
		start:         p.DayStartTime,
		end:           p.DayEndTime,
		theme:         p.Theme,
		notifications: p.PushNotificationsEnabled,
		autoCopy:      p.AutoCopyIncompleteTasks,
	}
	v := m.values

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Day starts").
				Description("HH:MM, 24-hour clock").
				Placeholder(model.DefaultDayStartTime).
				CharLimit(5).
				Value(&v.start).
				Validate(validateClock),
			huh.NewInput().
				Title("Day ends").
				Description("Unfinished goals turn overdue at this time").
				Placeholder(model.DefaultDayEndTime).
				CharLimit(5).
				Value(&v.end).
				Validate(validateClock),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Follow terminal", model.ThemeSystem),
					huh.NewOption("Light", model.ThemeLight),
					huh.NewOption("Dark", model.ThemeDark),
				).
				Value(&v.theme),
			huh.NewConfirm().
				Title("Reminders").
				Description("Notify at the start, during and near the end of the day").
				Affirmative("On").
				Negative("Off").
				Value(&v.notifications),
			huh.NewConfirm().
				Title("Carry over unfinished goals").
				Description("Copy yesterday's open goals into an empty day").
				Affirmative("On").
				Negative("Off").
				Value(&v.autoCopy),
		),
	).WithWidth(m.formWidth())

	return m.form.Init()
}

// Active reports whether the form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		saved := m.result()
		m.form = nil
		return m, func() tea.Msg { return saved }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return SettingsCancelledMsg{} }
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Settings")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) result() SettingsSavedMsg {
	v := m.values
	p := m.base
	start, end := strings.TrimSpace(v.start), strings.TrimSpace(v.end)
	changed := start != p.DayStartTime || end != p.DayEndTime

	p.DayStartTime = start
	p.DayEndTime = end
	p.Theme = v.theme
	p.PushNotificationsEnabled = v.notifications
	p.AutoCopyIncompleteTasks = v.autoCopy
	if changed {
		p.DayScheduleConfigured = true
	}
	return SettingsSavedMsg{Prefs: p, ScheduleChanged: changed}
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 80)
}

func validateClock(s string) error {
	s = strings.TrimSpace(s)
	if len(s) != 5 {
		return fmt.Errorf("use HH:MM")
	}
	if _, err := day.ParseClockTime(s); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}
