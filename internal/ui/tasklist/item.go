package tasklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns the goal's details.
func (i TaskItem) Description() string { return i.Task.Description }

// ItemDelegate implements list.ItemDelegate for rendering goals.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single goal line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	badge := theme.StatusStyle(t.Status).Render(statusMark(t.Status))
	line := fmt.Sprintf("%s %s", badge, t.Title)
	if t.Status == model.StatusOverdue {
		line += theme.StatusStyle(t.Status).Render(" overdue")
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func statusMark(s model.TaskStatus) string {
	switch s {
	case model.StatusDone:
		return "✓"
	case model.StatusOverdue:
		return "!"
	default:
		return "○"
	}
}
