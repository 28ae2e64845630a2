package components

import (
	"strings"

	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Proposals", Key: 'l', KeyPos: 7},
	{Name: "Resources", Key: 'r', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

const tabSeparator = "│"

// tabLabel returns the tab text before padding is applied. Inactive tabs
// whose shortcut is not part of their name get a "[k]" suffix.
func tabLabel(tab Tab, active bool) string {
	if active || tab.KeyPos >= 0 {
		return tab.Name
	}
	return tab.Name + "[" + string(tab.Key) + "]"
}

// TabVisualWidth is the rendered width of a tab including its padding.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active)) + 2
}

// RenderTabBar renders a single-row tab bar filling width.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Underline(true)
	padStyle := lipgloss.NewStyle().Background(t.Surface)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	var b strings.Builder
	for i, tab := range Tabs {
		if i > 0 {
			b.WriteString(sepStyle.Render(tabSeparator))
		}
		if i == activeIdx {
			b.WriteString(activeStyle.Render(tab.Name))
			continue
		}

		b.WriteString(padStyle.Render(" "))
		if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			b.WriteString(inactiveStyle.Render(tab.Name[:tab.KeyPos]))
			b.WriteString(keyStyle.Render(tab.Name[tab.KeyPos : tab.KeyPos+1]))
			b.WriteString(inactiveStyle.Render(tab.Name[tab.KeyPos+1:]))
		} else {
			b.WriteString(inactiveStyle.Render(tab.Name))
			b.WriteString(inactiveStyle.Render("["))
			b.WriteString(keyStyle.Render(string(tab.Key)))
			b.WriteString(inactiveStyle.Render("]"))
		}
		b.WriteString(padStyle.Render(" "))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Left, b.String(),
		lipgloss.WithWhitespaceBackground(t.Surface))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
