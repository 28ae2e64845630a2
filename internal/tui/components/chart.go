package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one labeled row in an HBarChart.
type Bar struct {
	Label string
	Value float64
}

// HBarChart renders one horizontal bar per entry, scaled to the largest
// value, with the formatted value printed after each bar.
func HBarChart(bars []Bar, color lipgloss.Color, width int, format func(float64) string) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	valueW := 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		valueW = max(valueW, lipgloss.Width(format(b.Value)))
		peak = math.Max(peak, b.Value)
	}
	if peak <= 0 {
		peak = 1
	}

	barW := width - labelW - valueW - 3
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.SurfaceBright).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	lines := make([]string, len(bars))
	for i, b := range bars {
		filled := barCells(b.Value/peak, barW)
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) + space +
			barStyle.Render(strings.Repeat("█", filled)) +
			trackStyle.Render(strings.Repeat("░", barW-filled)) + space +
			valueStyle.Render(fmt.Sprintf("%*s", valueW, format(b.Value)))
	}
	return strings.Join(lines, "\n")
}

// StackedBar splits width cells between spent and remaining, in proportion
// to their share of the total envelope.
func StackedBar(spent, remaining float64, width int) string {
	t := theme.Active
	if width < 1 {
		return ""
	}

	total := spent + remaining
	spentW := 0
	if total > 0 {
		spentW = barCells(spent/total, width)
	}

	spentStyle := lipgloss.NewStyle().Foreground(colorForShare(spent, total)).Background(t.Surface)
	leftStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if total <= 0 {
		return emptyStyle.Render(strings.Repeat("·", width))
	}
	return spentStyle.Render(strings.Repeat("█", spentW)) +
		leftStyle.Render(strings.Repeat("▒", width-spentW))
}

func barCells(frac float64, width int) int {
	n := int(math.Round(frac * float64(width)))
	return min(max(n, 0), width)
}

func colorForShare(part, total float64) lipgloss.Color {
	if total <= 0 {
		return theme.Active.TextDim
	}
	return ColorForPct(part / total)
}
