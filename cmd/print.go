package cmd

import (
	"fmt"
	"strconv"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/cli"
)

// printHeadings prints the per-heading figures and the totals block.
func printHeadings(snap *budget.State, unit string) {
	sum := budget.Summarize(snap)

	rows := make([][]string, 0, len(sum.Headings)+2)
	for _, h := range sum.Headings {
		rows = append(rows, []string{
			h.Label(),
			h.Name,
			cli.FormatAmount(h.TotalBudget),
			cli.FormatAmount(h.Committed),
			cli.FormatAmount(h.Negotiable),
			cli.FormatAmount(h.Spent),
			cli.FormatAmount(h.Remaining),
			cli.RenderUsageBar(h.Spent, h.Negotiable, 10),
		})
	}
	tot := sum.Totals
	rows = append(rows,
		[]string{"---"},
		[]string{"", "Total", "", "", cli.FormatAmount(tot.CurrentNegotiable), cli.FormatAmount(tot.Spent), cli.FormatAmount(tot.Remaining), ""},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Budget Headings (" + unit + " MEP€)",
		Headers:  []string{"", "Heading", "Total", "Committed", "Negotiable", "Spent", "Remaining", "Used"},
		Rows:     rows,
		TextCols: []int{1, 7},
	}))
	fmt.Println()

	fmt.Println()
	fmt.Println("  Remaining Negotiable by Heading (" + unit + " MEP€)")
	peak := 0.0
	for _, h := range sum.Headings {
		peak = max(peak, h.Remaining)
	}
	for _, h := range sum.Headings {
		label := fmt.Sprintf("%-3s %10s", h.Label(), cli.FormatAmount(h.Remaining))
		fmt.Println(cli.RenderHorizontalBar(label, h.Remaining, peak, 40))
	}
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Totals",
		Rows: [][]string{
			{"Initial Negotiable", cli.FormatMoney(tot.InitialNegotiable, unit)},
			{"New Resources", cli.FormatMoney(tot.NewResources, unit)},
			{"Current Negotiable", cli.FormatMoney(tot.CurrentNegotiable, unit)},
			{"---"},
			{"Total Spent", cli.FormatMoney(tot.Spent, unit)},
			{"Total Remaining", cli.FormatMoney(tot.Remaining, unit)},
		},
	}))
}

func printProposalLog(snap *budget.State, unit string) {
	log := budget.ProposalLog(snap)
	if len(log) == 0 {
		fmt.Println("  No proposals.")
		return
	}
	rows := make([][]string, len(log))
	for i, p := range log {
		rows[i] = []string{
			strconv.Itoa(len(log) - i),
			p.Name,
			string(p.Committee),
			budget.HeadingReference(snap, p.HeadingID),
			cli.FormatMoney(p.Cost, unit),
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Proposals (newest first)",
		Headers:  []string{"#", "Proposal", "Committee", "Heading", "Cost"},
		Rows:     rows,
		TextCols: []int{1, 2, 3},
	}))
}

func printResourceLog(snap *budget.State, unit string) {
	log := budget.ResourceLog(snap)
	if len(log) == 0 {
		fmt.Println("  No new own resources.")
		return
	}
	rows := make([][]string, len(log))
	for i, r := range log {
		rows[i] = []string{
			strconv.Itoa(len(log) - i),
			budget.HeadingReference(snap, r.HeadingID),
			string(r.Committee),
			cli.FormatMoney(r.Amount, unit),
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "New Own Resources (newest first)",
		Headers:  []string{"#", "Heading", "Committee", "Amount"},
		Rows:     rows,
		TextCols: []int{1, 2},
	}))
}
