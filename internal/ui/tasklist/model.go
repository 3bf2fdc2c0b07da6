package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/keys"
	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/theme"
)

// ToggleRequestedMsg asks the app to mark a goal done. Done goals stay done.
type ToggleRequestedMsg struct {
	Task model.Task
}

// DeleteRequestedMsg asks the app to delete a goal.
type DeleteRequestedMsg struct {
	Task model.Task
}

// Model shows today's goals and, when today is empty, the goals of the
// most recent planned day.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	view   day.View
	width  int
	height int
}

// New creates a new goal list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Today"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetView replaces the displayed day.
func (m *Model) SetView(v day.View) tea.Cmd {
	m.view = v
	m.list.Title = fmt.Sprintf("Today %s  %d/%d done", v.Today, v.DoneCount(), len(v.Tasks))

	items := make([]list.Item, len(v.Tasks))
	for i, t := range v.Tasks {
		items[i] = TaskItem{Task: t}
	}
	return m.list.SetItems(items)
}

// DayView returns the day currently shown.
func (m Model) DayView() day.View {
	return m.view
}

// SelectedTask returns the focused goal.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Update handles messages for the goal list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Toggle):
			task, ok := m.SelectedTask()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return ToggleRequestedMsg{Task: task} }

		case key.Matches(msg, m.keys.Delete):
			task, ok := m.SelectedTask()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return DeleteRequestedMsg{Task: task} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders today's goals or the empty state.
func (m Model) View() string {
	if len(m.view.Tasks) == 0 {
		return m.renderEmptyState()
	}

	out := m.list.View()
	if m.view.AllDone() {
		out = lipgloss.JoinVertical(lipgloss.Left, out,
			theme.CelebrationStyle.Render("All goals complete. Enjoy the rest of your day!"))
	}
	return out
}

// renderEmptyState asks the user to plan and previews the last planned day.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.ColorGray)

	msg := style.Render("No goals for today yet.\n\nPress p to plan up to three goals.")
	if len(m.view.FallbackTasks) == 0 {
		return lipgloss.NewStyle().Height(m.height).Render(msg)
	}

	lines := []string{fmt.Sprintf("Last planned day: %s", m.view.FallbackDate)}
	for _, t := range m.view.FallbackTasks {
		lines = append(lines, fmt.Sprintf("%s %s",
			theme.StatusStyle(t.Status).Render(statusMark(t.Status)), t.Title))
	}
	lines = append(lines, "", theme.HelpStyle.Render("c copy unfinished | C copy all"))

	panel := theme.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.JoinVertical(lipgloss.Center, msg, "", panel)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
