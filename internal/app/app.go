package app

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/dayplan/internal/backup"
	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/keys"
	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/notify"
	"github.com/nhle/dayplan/internal/store"
	"github.com/nhle/dayplan/internal/theme"
	"github.com/nhle/dayplan/internal/ui"
	"github.com/nhle/dayplan/internal/ui/command"
	"github.com/nhle/dayplan/internal/ui/detail"
	helpview "github.com/nhle/dayplan/internal/ui/help"
	"github.com/nhle/dayplan/internal/ui/planform"
	"github.com/nhle/dayplan/internal/ui/settings"
	"github.com/nhle/dayplan/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewToday ViewState = iota
	ViewDetail
	ViewPlan
	ViewSettings
	ViewCommand
	ViewHelp
)

// PreferenceStore is the preferences access the app needs.
type PreferenceStore interface {
	day.Preferences
	Save(p model.Preferences) error
}

// Deps are the services the TUI drives.
type Deps struct {
	Store      store.Store
	Prefs      PreferenceStore
	Reconciler *day.Reconciler
	Scheduler  *notify.Scheduler
	Dispatcher *notify.Dispatcher
	Watcher    *day.Watcher
	Clock      day.Clock
	Log        *slog.Logger

	// Backup and Files serve the export and import commands. Either may be
	// nil, which turns the commands off.
	Backup *backup.Service
	Files  *backup.Files
}

// Model is the root Bubble Tea model that routes between the goal list,
// the forms and the help overlay.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	deps         Deps
	keys         *keys.KeyMap
	taskList     tasklist.Model
	detail       detail.Model
	planForm     planform.Model
	settings     settings.Model
	commandLine  command.Model
	helpView     helpview.Model
	prefs        model.Preferences
	ready        bool

	// countdown is the last rendered tick.
	countdown day.TickMsg

	// scheduled is true once today's notifications were planned; celebrated
	// once the all-done notification replaced the progress reminders.
	scheduled  bool
	celebrated bool

	// status is a transient message shown in the status bar.
	status    string
	statusErr bool
}

// New creates the root model.
func New(d Deps) Model {
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewToday,
		deps:        d,
		keys:        k,
		taskList:    tasklist.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		planForm:    planform.New(80, 24),
		settings:    settings.New(80, 24),
		commandLine: command.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		prefs:       model.DefaultPreferences(),
	}
}

// Init loads preferences, reconciles the day and starts the countdown.
// Notifications are scheduled once the first reconcile reports the day.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadPrefs(),
		m.reconcile(),
		m.deps.Watcher.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		h := m.layout.ContentHeight()
		m.taskList.SetSize(msg.Width, h)
		m.detail.SetSize(msg.Width, h)
		m.planForm.SetSize(msg.Width, h)
		m.settings.SetSize(msg.Width, h)
		m.commandLine.SetSize(msg.Width, h)
		m.helpView.SetSize(msg.Width, h)
		return m.updateActiveView(msg)

	case prefsLoadedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.applyPrefs(msg.prefs)
		return m, nil

	case reconciledMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		cmds := []tea.Cmd{m.taskList.SetView(msg.view)}
		m.detail.Refresh(msg.view.Tasks)
		if m.currentView == ViewDetail && m.detail.Task() == nil {
			m.currentView = ViewToday
		}
		allDone := msg.view.AllDone()
		switch {
		case allDone && !m.celebrated:
			m.celebrated = true
			cmds = append(cmds, m.celebrate())
		case !allDone && (m.celebrated || !m.scheduled):
			// A goal added after the celebration brings the reminders back.
			m.celebrated = false
			m.scheduled = true
			cmds = append(cmds, m.scheduleDay())
		}
		return m, tea.Batch(cmds...)

	case day.TickMsg:
		m.countdown = msg
		cmds := []tea.Cmd{m.deps.Watcher.WaitForNext(), m.dispatch(msg.Now)}
		if msg.Ended {
			cmds = append(cmds, m.closeDay())
		}
		return m, tea.Batch(cmds...)

	case day.RolloverMsg:
		m.deps.Log.Info("day rolled over", "from", msg.From, "to", msg.To)
		m.celebrated = false
		m.scheduled = false
		return m, tea.Batch(m.deps.Watcher.WaitForNext(), m.reconcile())

	case dayClosedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		if msg.closed {
			m.status, m.statusErr = "Day over. Unfinished goals are now overdue.", false
			return m, m.reconcile()
		}
		return m, nil

	case dueMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		for _, n := range msg.due {
			m.status, m.statusErr = fmt.Sprintf("%s: %s", n.Title, n.Body), false
		}
		return m, nil

	case scheduledMsg:
		if !msg.ok {
			m.deps.Log.Debug("notifications not scheduled")
		}
		return m, nil

	case celebratedMsg:
		if !msg.ok {
			m.deps.Log.Debug("celebration not scheduled")
		}
		return m, nil

	case tasksChangedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		if msg.status != "" {
			m.status, m.statusErr = msg.status, false
		}
		return m, m.reconcile()

	case prefsSavedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.applyPrefs(msg.prefs)
		m.status, m.statusErr = msg.status, false
		switch {
		case !msg.reschedule:
			return m, nil
		case m.celebrated:
			return m, m.celebrate()
		default:
			return m, m.scheduleDay()
		}

	case tasklist.ToggleRequestedMsg:
		return m, m.completeTask(msg.Task)

	case tasklist.DeleteRequestedMsg:
		return m, m.deleteTask(msg.Task)

	case detail.ToggleRequestedMsg:
		return m, m.completeTask(msg.Task)

	case detail.BackMsg:
		m.currentView = ViewToday
		return m, nil

	case planform.PlanSubmittedMsg:
		m.currentView = ViewToday
		return m, m.planDay(msg.Goals)

	case planform.PlanCancelledMsg:
		m.currentView = ViewToday
		return m, nil

	case settings.SettingsSavedMsg:
		m.currentView = ViewToday
		if msg.ScheduleChanged {
			m.deps.Log.Info("day window changed", "start", msg.Prefs.DayStartTime, "end", msg.Prefs.DayEndTime)
		}
		return m, m.savePrefs(msg.Prefs, "Settings saved", true)

	case settings.SettingsCancelledMsg:
		m.currentView = ViewToday
		return m, nil

	case command.CommandMsg:
		m.currentView = ViewToday
		return m.runCommand(msg)

	case backupDoneMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.status, m.statusErr = msg.status, false
		if !msg.imported {
			return m, nil
		}
		m.scheduled, m.celebrated = false, false
		return m, tea.Batch(m.loadPrefs(), m.reconcile())

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleKey processes global keys. Forms own the keyboard while open.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.deps.Watcher.Stop()
		return m, tea.Quit, true
	}
	switch m.currentView {
	case ViewPlan, ViewSettings:
		return m, nil, false
	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = ViewToday
			return m, nil, true
		}
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.deps.Watcher.Stop()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewToday
		m.status = ""
		return m, nil, true
	}

	if m.currentView != ViewToday {
		return m, nil, false
	}

	v := m.taskList.DayView()
	switch {
	case key.Matches(msg, m.keys.Open):
		t, ok := m.taskList.SelectedTask()
		if !ok {
			return m, nil, true
		}
		m.detail.SetTask(&t)
		m.currentView = ViewDetail
		return m, nil, true

	case key.Matches(msg, m.keys.Plan), key.Matches(msg, m.keys.Add):
		free := model.MaxGoalsPerDay - len(v.Tasks)
		if key.Matches(msg, m.keys.Add) {
			free = min(free, 1)
		}
		if free <= 0 {
			m.status, m.statusErr = fmt.Sprintf("Today already has %d goals.", model.MaxGoalsPerDay), true
			return m, nil, true
		}
		m.currentView = ViewPlan
		return m, m.planForm.Start(free), true

	case key.Matches(msg, m.keys.CopyUndone), key.Matches(msg, m.keys.CopyAll):
		if len(v.Tasks) > 0 || v.FallbackDate == "" {
			return m, nil, true
		}
		return m, m.copyFrom(v.FallbackDate, key.Matches(msg, m.keys.CopyAll)), true

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reconcile(), true

	case key.Matches(msg, m.keys.Command):
		m.currentView = ViewCommand
		return m, m.commandLine.Open(), true

	case key.Matches(msg, m.keys.Settings):
		m.currentView = ViewSettings
		return m, m.settings.Start(m.prefs), true

	case key.Matches(msg, m.keys.Theme):
		p := m.prefs
		p.Theme = theme.Next(p.Theme)
		return m, m.savePrefs(p, "Theme: "+p.Theme, false), true

	case key.Matches(msg, m.keys.Notifications):
		p := m.prefs
		p.PushNotificationsEnabled = !p.PushNotificationsEnabled
		return m, m.savePrefs(p, "Notifications "+onOff(p.PushNotificationsEnabled), true), true

	case key.Matches(msg, m.keys.AutoCopy):
		p := m.prefs
		p.AutoCopyIncompleteTasks = !p.AutoCopyIncompleteTasks
		return m, m.savePrefs(p, "Auto-copy unfinished goals "+onOff(p.AutoCopyIncompleteTasks), false), true
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewToday:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewPlan:
		m.planForm, cmd = m.planForm.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	case ViewCommand:
		m.commandLine, cmd = m.commandLine.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Dayplan", m.headerInfo())
	statusBar := m.layout.RenderStatusBar(m.countdownText(), m.statusText())
	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewPlan:
		return m.planForm.View()
	case ViewSettings:
		return m.settings.View()
	case ViewDetail:
		return m.detail.View()
	case ViewCommand:
		return m.commandLine.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return m.taskList.View()
	}
}

func (m Model) headerInfo() string {
	return fmt.Sprintf("%s-%s  notifications %s",
		m.prefs.DayStartTime, m.prefs.DayEndTime, onOff(m.prefs.PushNotificationsEnabled))
}

func (m Model) countdownText() string {
	if m.countdown.Now.IsZero() {
		return ""
	}
	if m.countdown.Ended {
		return theme.CountdownStyle(0, true).Render("day ended")
	}
	mins := int(m.countdown.Remaining.Minutes())
	return theme.CountdownStyle(mins, false).Render("ends in " + day.FormatCountdown(m.countdown.Remaining))
}

// statusText shows the transient message, or key hints when there is none.
func (m Model) statusText() string {
	if m.status != "" {
		if m.statusErr {
			return theme.ErrorStyle.Render(m.status)
		}
		return m.status
	}
	switch m.currentView {
	case ViewPlan, ViewSettings:
		return "enter next | esc cancel"
	case ViewDetail:
		return "space mark done | esc back"
	case ViewCommand:
		return "enter run | esc cancel"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return m.helpView.ShortView()
	}
}

// runCommand executes a line from the command palette.
func (m Model) runCommand(c command.CommandMsg) (tea.Model, tea.Cmd) {
	if m.deps.Backup == nil || m.deps.Files == nil {
		m.status, m.statusErr = "Backups are not available.", true
		return m, nil
	}
	arg := func(i int) string {
		if i < len(c.Args) {
			return c.Args[i]
		}
		return ""
	}

	switch c.Name {
	case "export":
		return m, m.exportBackup(arg(0))
	case "import":
		if arg(0) == "" {
			m.status, m.statusErr = "usage: import <file> [password]", true
			return m, nil
		}
		return m, m.importBackup(arg(0), arg(1))
	}
	m.status, m.statusErr = fmt.Sprintf("Unknown command %q", c.Name), true
	return m, nil
}

// fail logs err and shows it in the status bar.
func (m Model) fail(err error) Model {
	m.deps.Log.Error("operation failed", "error", err)
	m.status, m.statusErr = err.Error(), true
	return m
}

func (m *Model) applyPrefs(p model.Preferences) {
	m.prefs = p
	theme.Apply(p.Theme)
	if w, err := day.WindowOf(p); err == nil {
		m.deps.Watcher.SetWindow(w)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
