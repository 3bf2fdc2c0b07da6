package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/dayplan/internal/keys"
	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ToggleRequestedMsg asks the parent to mark the shown goal done.
type ToggleRequestedMsg struct {
	Task model.Task
}

// Model shows one goal with its notes in a scrollable viewport.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Toggle):
			if m.task != nil {
				t := *m.task
				return m, func() tea.Msg { return ToggleRequestedMsg{Task: t} }
			}
			return m, nil
		}
	}

	// j/k, pgup/pgdn scroll the notes.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No goal selected")
	}
	return m.viewport.View()
}

// Task returns the goal being shown.
func (m Model) Task() *model.Task {
	return m.task
}

// SetTask shows t and scrolls back to the top. A nil task clears the view.
func (m *Model) SetTask(t *model.Task) {
	m.task = t
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Refresh replaces the shown goal with its latest copy from tasks, keeping
// the scroll position. The view is cleared when the goal is gone.
func (m *Model) Refresh(tasks []model.Task) {
	if m.task == nil {
		return
	}
	for _, t := range tasks {
		if t.ID == m.task.ID {
			m.task = &t
			m.viewport.SetContent(m.renderContent())
			return
		}
	}
	m.task = nil
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}

func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}
	task := m.task

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections := []string{
		titleStyle.Render(task.Title),
		theme.StatusStyle(task.Status).Render(strings.ToUpper(task.Status.String())),
		"",
		fmt.Sprintf("%s  %s", metaStyle.Render("Planned for:"), valStyle.Render(task.CreationDate)),
	}

	sep := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", sep, "",
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1).Render("Notes"))

	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No notes")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
