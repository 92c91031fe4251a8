package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studytrack/internal/theme"
)

// Layout manages the terminal frame: a one-line header, the content
// area and a one-line status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title on the left and a summary such as the
// overall task count on the right.
func (l Layout) RenderHeader(title, summary string) string {
	return l.fill(theme.HeaderStyle, theme.HeaderStyle.Render(title), theme.HeaderStyle.Render(summary))
}

// RenderStatusBar renders key hints, or msg in place of them when set.
// Error messages use the error style.
func (l Layout) RenderStatusBar(hints, msg string, isErr bool) string {
	text := hints
	style := theme.StatusBarStyle
	if msg != "" {
		text = msg
		if isErr {
			style = style.Foreground(theme.ColorRed).Bold(true)
		}
	}
	return l.fill(theme.StatusBarStyle, style.Render(text), "")
}

// fill pads the gap between left and right with the bar's background.
func (l Layout) fill(bar lipgloss.Style, left, right string) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(bar.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
