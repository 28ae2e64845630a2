package components

import (
	"fmt"

	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns green/yellow/orange/red based on how much of an
// envelope is used.
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 0.9:
		return t.Red
	case pct >= 0.7:
		return t.Orange
	case pct >= 0.5:
		return t.Yellow
	default:
		return t.Green
	}
}

// UsageBar renders a labeled bubbles progress bar followed by the used
// percentage. pct is clamped to [0, 1].
func UsageBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active
	pct = min(max(pct, 0), 1)

	bar := progress.New(
		progress.WithSolidFill(string(ColorForPct(pct))),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(ColorForPct(pct)).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(pct) +
		space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
