package tui

import (
	"fmt"
	"strings"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/cli"
	"github.com/mepalumni/mepbudget/internal/tui/components"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// logColumn describes one column of a log list. Numeric columns are
// right-aligned.
type logColumn struct {
	title   string
	width   int // 0 takes the remaining width
	numeric bool
}

// renderLog draws a header row and the visible window of rows starting at
// offset. height is the number of body rows that fit.
func renderLog(cols []logColumn, rows [][]string, offset, height, innerW int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1
	}
	flex := max(innerW-fixed, 8)

	line := func(cells []string, style lipgloss.Style) string {
		var b strings.Builder
		for i, c := range cols {
			w := c.width
			if w == 0 {
				w = flex
			}
			cell := truncStr(cells[i], w)
			if c.numeric {
				b.WriteString(style.Render(fmt.Sprintf("%*s", w, cell)))
			} else {
				b.WriteString(style.Render(fmt.Sprintf("%-*s", w, cell)))
			}
			if i < len(cols)-1 {
				b.WriteString(space)
			}
		}
		return b.String()
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}

	var b strings.Builder
	b.WriteString(line(titles, headStyle))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))

	end := min(offset+height, len(rows))
	for _, r := range rows[offset:end] {
		b.WriteString("\n")
		b.WriteString(line(r, cellStyle))
	}
	if end < len(rows) {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more (j/k to scroll)", len(rows)-end)))
	}
	return b.String()
}

func emptyLog(msg string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Italic(true).Render(msg)
}

// logBodyHeight is the number of rows that fit in a log card given the
// content height, leaving room for the card chrome and header.
func logBodyHeight(contentH int) int {
	return max(contentH-7, 1)
}

func (a App) renderProposalsTab(cw, contentH int) string {
	snap := a.session.Snapshot()
	log := budget.ProposalLog(snap)
	innerW := components.CardInnerWidth(cw)
	title := fmt.Sprintf("Proposals (%d, newest first)", len(log))

	if len(log) == 0 {
		return components.ContentCard(title, emptyLog("No proposals yet. Press p to submit one."), cw)
	}

	cols := []logColumn{
		{title: "#", width: 4, numeric: true},
		{title: "Proposal"},
		{title: "Committee", width: 10},
		{title: "Heading", width: 28},
		{title: "Cost", width: 14, numeric: true},
	}
	rows := make([][]string, len(log))
	for i, p := range log {
		rows[i] = []string{
			fmt.Sprintf("%d", len(log)-i),
			p.Name,
			string(p.Committee),
			budget.HeadingReference(snap, p.HeadingID),
			cli.FormatMoney(p.Cost, a.unitLabel()),
		}
	}

	offset := clampScroll(a.proposalScroll, len(rows))
	return components.ContentCard(title, renderLog(cols, rows, offset, logBodyHeight(contentH), innerW), cw)
}

func (a App) renderResourcesTab(cw, contentH int) string {
	snap := a.session.Snapshot()
	log := budget.ResourceLog(snap)
	innerW := components.CardInnerWidth(cw)
	unit := a.unitLabel()

	// Per-heading totals of new own resources
	var totals strings.Builder
	byHeading := budget.ResourcesByHeading(snap)
	for _, h := range snap.Headings() {
		added := byHeading[h.ID]
		if added == 0 {
			continue
		}
		if totals.Len() > 0 {
			totals.WriteString("\n")
		}
		totals.WriteString(components.UsageBar(h.Label(), added/h.Negotiable, 4, max(innerW-12-16, 10)))
		totals.WriteString(lipgloss.NewStyle().Foreground(theme.Active.TextPrimary).Background(theme.Active.Surface).
			Render(fmt.Sprintf(" %14s", "+"+cli.FormatMoney(added, unit))))
	}

	title := fmt.Sprintf("New Own Resources (%d, newest first)", len(log))
	if len(log) == 0 {
		return components.ContentCard(title, emptyLog("No resources added yet. Press n to add some."), cw)
	}

	cols := []logColumn{
		{title: "#", width: 4, numeric: true},
		{title: "Heading"},
		{title: "Committee", width: 10},
		{title: "Amount", width: 14, numeric: true},
	}
	rows := make([][]string, len(log))
	for i, r := range log {
		rows[i] = []string{
			fmt.Sprintf("%d", len(log)-i),
			budget.HeadingReference(snap, r.HeadingID),
			string(r.Committee),
			cli.FormatMoney(r.Amount, unit),
		}
	}

	shareCard := components.ContentCard("Share of Current Negotiable from New Resources", totals.String(), cw)
	bodyH := logBodyHeight(contentH - lipgloss.Height(shareCard))
	offset := clampScroll(a.resourceScroll, len(rows))

	return shareCard + "\n" +
		components.ContentCard(title, renderLog(cols, rows, offset, bodyH, innerW), cw)
}
