package tui

import (
	"fmt"
	"strings"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/cli"
	"github.com/mepalumni/mepbudget/internal/model"
	"github.com/mepalumni/mepbudget/internal/tui/components"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) summary() model.Summary {
	return budget.Summarize(a.session.Snapshot())
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.summary()
	tot := sum.Totals
	unit := a.unitLabel()

	var b strings.Builder

	// Row 1: simulation-wide totals
	metrics := []components.Metric{
		{Label: "Initial Negotiable", Value: cli.FormatWhole(tot.InitialNegotiable) + " " + unit,
			Note: cli.FormatCount(len(sum.Headings), "heading")},
		{Label: "Total Spent", Value: cli.FormatMoney(tot.Spent, unit),
			Note: cli.FormatCount(tot.Proposals, "proposal")},
		{Label: "Total Remaining", Value: cli.FormatMoney(tot.Remaining, unit),
			Note: "of " + cli.FormatMoney(tot.CurrentNegotiable, unit)},
		{Label: "New Resources", Value: cli.FormatMoney(tot.NewResources, unit),
			Note: cli.FormatCount(tot.Resources, "addition")},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: one card per heading
	perRow := 3
	if a.isCompactLayout() {
		perRow = 2
	}
	for start := 0; start < len(sum.Headings); start += perRow {
		end := min(start+perRow, len(sum.Headings))
		widths := components.LayoutRow(cw, perRow)
		cards := make([]string, 0, perRow)
		for i, h := range sum.Headings[start:end] {
			cards = append(cards, headingCard(h, unit, widths[i]))
		}
		b.WriteString(components.CardRow(cards))
		b.WriteString("\n")
	}

	// Row 3: remaining per heading
	bars := make([]components.Bar, len(sum.Headings))
	for i, h := range sum.Headings {
		bars[i] = components.Bar{Label: h.Label(), Value: h.Remaining}
	}
	b.WriteString(components.ContentCard(
		"Remaining Negotiable by Heading",
		components.HBarChart(bars, t.Blue, components.CardInnerWidth(cw), cli.FormatAmount),
		cw,
	))

	return b.String()
}

// headingCard renders the figures of one heading and a spent/remaining bar.
func headingCard(h model.HeadingSummary, unit string, outerWidth int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerWidth)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spentStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	remainingStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)

	row := func(label, value string, style lipgloss.Style) string {
		valueW := max(innerW-lipgloss.Width(label), 1)
		return labelStyle.Render(label) + style.Render(fmt.Sprintf("%*s", valueW, value))
	}

	lines := []string{
		row("Total", cli.FormatMoney(h.TotalBudget, unit), valueStyle),
		row("Committed", cli.FormatMoney(h.Committed, unit), valueStyle),
		row("Negotiable", cli.FormatMoney(h.Negotiable, unit), valueStyle),
		row("Spent", cli.FormatMoney(h.Spent, unit), spentStyle),
		row("Remaining", cli.FormatMoney(h.Remaining, unit), remainingStyle),
	}
	if h.ResourcesAdded > 0 {
		lines = append(lines, row("  incl. new resources", "+"+cli.FormatMoney(h.ResourcesAdded, unit), labelStyle))
	}
	lines = append(lines, components.StackedBar(h.Spent, h.Remaining, innerW))

	title := truncStr(h.Label()+": "+h.Name, innerW)
	return components.ContentCard(title, strings.Join(lines, "\n"), outerWidth)
}
