package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func plainOutput(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

func TestRenderTable_Alignment(t *testing.T) {
	plainOutput(t)

	out := RenderTable(Table{
		Headers:  []string{"ID", "Heading", "Remaining"},
		TextCols: []int{1},
		Rows: [][]string{
			{"H1", "Single Market", "70.00"},
			{"---"},
			{"H12", "Admin", "5.00"},
		},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if lines[0] != "╭─────┬───────────────┬───────────╮" {
		t.Errorf("top border = %q", lines[0])
	}
	if lines[3] != "│ H1  │ Single Market │     70.00 │" {
		t.Errorf("row = %q", lines[3])
	}
	if lines[4] != "├─────┼───────────────┼───────────┤" {
		t.Errorf("separator = %q", lines[4])
	}
	if lines[5] != "│ H12 │ Admin         │      5.00 │" {
		t.Errorf("row = %q", lines[5])
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderUsageBar(t *testing.T) {
	plainOutput(t)

	if got := RenderUsageBar(25, 100, 8); got != "[██░░░░░░] 25.0%" {
		t.Errorf("RenderUsageBar(25/100) = %q", got)
	}
	if got := RenderUsageBar(150, 100, 4); got != "[████] 100.0%" {
		t.Errorf("RenderUsageBar clamps, got %q", got)
	}
	if got := RenderUsageBar(0, 0, 3); got != "[···] n/a" {
		t.Errorf("RenderUsageBar(no budget) = %q", got)
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	plainOutput(t)

	if got := RenderHorizontalBar("H1", 50, 100, 10); got != "  H1 █████" {
		t.Errorf("half bar = %q", got)
	}
	if got := RenderHorizontalBar("H2", 100, 100, 10); got != "  H2 ██████████" {
		t.Errorf("full bar = %q", got)
	}
	if got := RenderHorizontalBar("H7", 0, 100, 10); got != "  H7" {
		t.Errorf("empty bar = %q", got)
	}
	if got := RenderHorizontalBar("H1", 5, 0, 10); got != "  H1" {
		t.Errorf("no peak = %q", got)
	}
}
