package planform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/theme"
)

// PlanSubmittedMsg carries the goals entered in the form. Blank entries
// are already dropped.
type PlanSubmittedMsg struct {
	Goals []model.Task
}

// PlanCancelledMsg is dispatched when the user leaves the form.
type PlanCancelledMsg struct{}

// goalInput is one goal's field values. Kept on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type goalInput struct {
	title       string
	description string
}

// Model is the Bubble Tea model for planning the day's goals.
type Model struct {
	form   *huh.Form
	goals  []*goalInput
	width  int
	height int
}

// New creates a new plan form model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// Start opens the form with one input per free goal slot.
func (m *Model) Start(slots int) tea.Cmd {
	slots = max(0, min(slots, model.MaxGoalsPerDay))
	m.goals = make([]*goalInput, slots)

	groups := make([]*huh.Group, 0, slots)
	for i := range slots {
		g := &goalInput{}
		m.goals[i] = g

		title := huh.NewInput().
			Title(fmt.Sprintf("Goal %d", i+1)).
			Placeholder("What matters today?").
			CharLimit(model.MaxTitleLength).
			Value(&g.title)
		if i == 0 {
			title = title.Validate(validateRequired)
		}

		groups = append(groups, huh.NewGroup(
			title,
			huh.NewText().
				Title("Notes").
				Placeholder("Optional details...").
				CharLimit(model.MaxDescriptionLength).
				Value(&g.description),
		))
	}

	m.form = huh.NewForm(groups...).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight())
	return m.form.Init()
}

// Active reports whether a form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the plan form.
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
		goals := m.collect()
		m.form = nil
		return m, func() tea.Msg { return PlanSubmittedMsg{Goals: goals} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return PlanCancelledMsg{} }
	}

	return m, cmd
}

// View renders the plan form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Plan your day")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) collect() []model.Task {
	var out []model.Task
	for _, g := range m.goals {
		if strings.TrimSpace(g.title) == "" {
			continue
		}
		out = append(out, model.Task{Title: g.title, Description: g.description})
	}
	return out
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("at least one goal is required")
	}
	return nil
}
