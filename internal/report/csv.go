// Package report renders a simulation snapshot as the downloadable CSV report.
package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mepalumni/mepbudget/internal/budget"
)

// Filename is the fixed name of the exported report.
const Filename = "mep_budget_report.csv"

const title = "MEP Budget Simulation Report"

var (
	summaryHeader  = []string{"ID", "Heading Name", "Total Budget (B)", "Initial Negotiable (B)", "New Resources Added (B)", "Current Negotiable (B)", "Spent (B)", "Remaining Negotiable (B)"}
	proposalHeader = []string{"Proposal Name", "Submitting Committee", "Cost (B)", "Funding From Heading"}
	resourceHeader = []string{"Proposing Committee", "Amount Added (B)", "Target Heading"}
)

// WriteCSV writes the three-section report for s to w.
func WriteCSV(w io.Writer, s *budget.State) error {
	bw := bufio.NewWriter(w)
	sum := budget.Summarize(s)

	line := func(text string) {
		bw.WriteString(text)
		bw.WriteByte('\n')
	}
	row := func(cells ...string) {
		for i, c := range cells {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(EscapeCell(c))
		}
		bw.WriteByte('\n')
	}

	line(title)
	line("")

	line("Budget Headings Summary")
	row(summaryHeader...)
	for _, h := range sum.Headings {
		row(
			h.Label(),
			h.Name,
			Money(h.TotalBudget),
			Money(h.InitialNegotiable),
			Money(h.ResourcesAdded),
			Money(h.Negotiable),
			Money(h.Spent),
			Money(h.Remaining),
		)
	}
	line("")
	line("")

	line("Submitted Financial Implication Forms")
	row(proposalHeader...)
	for _, p := range budget.ProposalLog(s) {
		row(p.Name, string(p.Committee), Money(p.Cost), budget.HeadingReference(s, p.HeadingID))
	}
	line("")
	line("")

	line("New Own Resources Added")
	row(resourceHeader...)
	for _, r := range budget.ResourceLog(s) {
		row(string(r.Committee), Money(r.Amount), budget.HeadingReference(s, r.HeadingID))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// CSV returns the report for s as bytes.
func CSV(s *budget.State) []byte {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, s) // bytes.Buffer writes do not fail
	return buf.Bytes()
}

// WriteFile writes the report into dir under Filename and returns the path.
func WriteFile(dir string, s *budget.State) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, Filename)
	tmp, err := os.CreateTemp(dir, ".mep_budget_report-*.csv")
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := WriteCSV(tmp, s); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing report file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming report file: %w", err)
	}
	return path, nil
}

// EscapeCell quotes a cell that contains a comma, a double quote or a line
// break, doubling any inner quotes. Other cells are returned unchanged.
func EscapeCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// Money formats an amount with exactly two decimals. Values that round to
// zero print as "0.00", never "-0.00".
func Money(v float64) string {
	if math.Abs(v) < 0.005 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
