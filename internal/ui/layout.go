package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/dayplan/internal/theme"
)

// Layout manages the header, content and status bar dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height left for the main content area.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// RenderHeader renders the title bar with title on the left and info on
// the right.
func (l Layout) RenderHeader(title, info string) string {
	return l.bar(theme.HeaderStyle, title, info)
}

// RenderStatusBar renders the bottom bar.
func (l Layout) RenderStatusBar(left, right string) string {
	return l.bar(theme.StatusBarStyle, left, right)
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().Height(l.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (l Layout) bar(style lipgloss.Style, left, right string) string {
	l1 := style.Render(left)
	r1 := style.Render(right)

	gap := max(l.Width-lipgloss.Width(l1)-lipgloss.Width(r1), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, l1, filler, r1)
}
