// Package components provides reusable TUI widgets for the budget dashboard.
package components

import (
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one figure shown in a MetricCardRow.
type Metric struct {
	Label string
	Value string
	Note  string
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	extra := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < extra {
			widths[i]++
		}
	}
	return widths
}

func cardStyle(outerWidth int, border lipgloss.Color) lipgloss.Style {
	contentWidth := outerWidth - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(theme.Active.Background).
		Background(theme.Active.Surface).
		Width(contentWidth).
		Padding(0, 1)
}

// MetricCard renders a small card with a label, a bold value and an
// optional note underneath.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + noteStyle.Render(m.Note)
	}
	return cardStyle(outerWidth, t.Border).Render(content)
}

// MetricCardRow renders metric cards side by side, filling totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	return titledCard(title, body, outerWidth, theme.Active.Border)
}

// AccentCard is a ContentCard drawn with the accent border, used for the
// focused form.
func AccentCard(title, body string, outerWidth int) string {
	return titledCard(title, body, outerWidth, theme.Active.BorderAccent)
}

func titledCard(title, body string, outerWidth int, border lipgloss.Color) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)

	content := body
	if title != "" {
		content = titleStyle.Render(title) + "\n" + body
	}
	return cardStyle(outerWidth, border).Render(content)
}

// CardRow joins rendered cards horizontally. Shorter cards are padded with
// the background so the row stays rectangular.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	tallest := 0
	for _, c := range cards {
		if h := lipgloss.Height(c); h > tallest {
			tallest = h
		}
	}
	padded := make([]string, len(cards))
	for i, c := range cards {
		padded[i] = lipgloss.PlaceVertical(tallest, lipgloss.Top, c,
			lipgloss.WithWhitespaceBackground(theme.Active.Background))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width.
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4 // 2 border + 2 padding
	if w < 10 {
		w = 10
	}
	return w
}
