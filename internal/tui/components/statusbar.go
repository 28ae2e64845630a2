package components

import (
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Flash levels for the status bar message.
const (
	FlashInfo = iota
	FlashSuccess
	FlashError
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the latest flash message on the right.
func RenderStatusBar(width int, flash string, level int) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := base
	switch level {
	case FlashSuccess:
		flashStyle = flashStyle.Foreground(t.GreenBright)
	case FlashError:
		flashStyle = flashStyle.Foreground(t.Red).Bold(true)
	}

	left := base.Render(" [p]roposal  [n]ew resources  [e]xport  [?]help  [q]uit")
	right := ""
	if flash != "" {
		right = flashStyle.Render(flash + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Flash wins over the hints when space runs out.
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, right,
			lipgloss.WithWhitespaceBackground(t.Surface))
	}
	return left + lipgloss.NewStyle().Background(t.Surface).Width(gap).Render("") + right
}
