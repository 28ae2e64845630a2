package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/report"
	"github.com/mepalumni/mepbudget/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	sess, err := budget.NewSession(budget.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	a := NewApp(sess, config.DefaultConfig(), false)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return m.(App)
}

func press(t *testing.T, a App, key string) App {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := len(tab.Name) + 2
			if i != active && tab.KeyPos < 0 {
				w += 3 // "[x]"
			}
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("active=%d: x past the last tab -> %d, want -1", active, got)
		}
	}
}

func TestFormDefaults(t *testing.T) {
	a := newTestApp(t)
	if a.proposal.Committee != "AFET-DROI" || a.proposal.HeadingID != 1 {
		t.Errorf("proposal defaults = %+v", *a.proposal)
	}
	if a.resource.Committee != "AFET-DROI" || a.resource.HeadingID != 1 {
		t.Errorf("resource defaults = %+v", *a.resource)
	}
}

func TestTabKeys(t *testing.T) {
	a := newTestApp(t)

	for _, tc := range []struct {
		key  string
		want int
	}{
		{"r", tabResources},
		{"l", tabProposals},
		{"x", tabSettings},
		{"o", tabOverview},
	} {
		a = press(t, a, tc.key)
		if a.activeTab != tc.want {
			t.Errorf("key %q -> tab %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}
}

func TestOpenAndCancelProposalForm(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, "p")
	if a.form == nil || a.formKind != formProposal {
		t.Fatalf("p should open the proposal form, got kind %d", a.formKind)
	}
	// Keys go to the form while it is open.
	a = press(t, a, "r")
	if a.activeTab != tabOverview {
		t.Errorf("tab changed while the form was open")
	}

	a = press(t, a, "esc")
	if a.form != nil || a.formKind != formNone {
		t.Error("esc should close the form")
	}
	if len(budget.ProposalLog(a.session.Snapshot())) != 0 {
		t.Error("cancelled form must not submit")
	}
}

func TestCompleteProposalClearsNameAndCost(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "p")

	a.proposal.Name = "Rail corridor"
	a.proposal.Cost = "12.25"
	a.proposal.Committee = "ITRE"
	a.proposal.HeadingID = 1

	m, _ := a.completeForm()
	a = m.(App)

	if a.form != nil {
		t.Fatal("form should close after an accepted proposal")
	}
	if a.proposal.Name != "" || a.proposal.Cost != "" {
		t.Errorf("name/cost not cleared: %+v", *a.proposal)
	}
	if a.proposal.Committee != "ITRE" || a.proposal.HeadingID != 1 {
		t.Errorf("committee/heading should be kept: %+v", *a.proposal)
	}
	if a.flashLevel != components.FlashSuccess || !strings.Contains(a.flash, "Rail corridor") {
		t.Errorf("flash = %q (level %d)", a.flash, a.flashLevel)
	}

	remaining, _ := budget.RemainingFor(a.session.Snapshot(), 1)
	if remaining != 57.75 {
		t.Errorf("remaining on H1 = %v, want 57.75", remaining)
	}
}

func TestRejectedProposalKeepsValues(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "p")

	a.proposal.Name = "Too big"
	a.proposal.Cost = "70.01"

	m, _ := a.completeForm()
	a = m.(App)

	if a.form == nil || a.formKind != formProposal {
		t.Fatal("form should stay open after a rejection")
	}
	if !strings.Contains(a.rejection, "70.00 B MEP€") {
		t.Errorf("rejection = %q", a.rejection)
	}
	if a.proposal.Name != "Too big" || a.proposal.Cost != "70.01" {
		t.Errorf("values should be kept: %+v", *a.proposal)
	}
	if n := len(budget.ProposalLog(a.session.Snapshot())); n != 0 {
		t.Errorf("%d proposals recorded, want 0", n)
	}
	if !strings.Contains(a.form.View(), "Rejected") {
		t.Error("rebuilt form should show the rejection note")
	}
}

func TestFormsUseConfiguredUnit(t *testing.T) {
	a := newTestApp(t)
	a.cfg.General.UnitLabel = "bn"

	a = press(t, a, "p")
	view := a.form.View()
	if !strings.Contains(view, "Cost (bn MEP€)") {
		t.Errorf("proposal form missing configured unit:\n%s", view)
	}

	a = press(t, a, "esc")
	a = press(t, a, "n")
	if view := a.form.View(); !strings.Contains(view, "Amount (bn MEP€)") {
		t.Errorf("resource form missing configured unit:\n%s", view)
	}
}

func TestCompleteResourceClearsAmount(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "n")
	if a.formKind != formResource {
		t.Fatalf("n should open the resource form, got kind %d", a.formKind)
	}

	a.resource.Amount = "10.5"
	a.resource.HeadingID = 5
	a.resource.Committee = "SEDE"

	m, _ := a.completeForm()
	a = m.(App)

	if a.resource.Amount != "" {
		t.Errorf("amount not cleared: %q", a.resource.Amount)
	}
	h, _ := a.session.Snapshot().Heading(5)
	if h.Negotiable != h.InitialNegotiable+10.5 {
		t.Errorf("H5 negotiable = %v, want %v", h.Negotiable, h.InitialNegotiable+10.5)
	}

	a = press(t, a, "n")
	a.resource.Amount = "-1"
	m, _ = a.completeForm()
	a = m.(App)
	if a.rejection != "Amount must be a positive number." {
		t.Errorf("rejection = %q", a.rejection)
	}
}

func TestExportWritesReport(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()

	msg := exportCmd(a.session.Snapshot(), dir)()
	done, ok := msg.(ExportDoneMsg)
	if !ok {
		t.Fatalf("exportCmd returned %T", msg)
	}
	if done.Err != nil {
		t.Fatalf("export: %v", done.Err)
	}
	if done.Path != filepath.Join(dir, report.Filename) {
		t.Errorf("path = %q", done.Path)
	}
	if _, err := os.Stat(done.Path); err != nil {
		t.Errorf("report not written: %v", err)
	}

	a.exporting = true
	m, _ := a.Update(done)
	a = m.(App)
	if a.exporting || a.flashLevel != components.FlashSuccess {
		t.Errorf("after export: exporting=%v level=%d", a.exporting, a.flashLevel)
	}
}

func TestFlashExpiresOnlyForLatestMessage(t *testing.T) {
	a := newTestApp(t)

	m, _ := a.setFlash("first", components.FlashInfo)
	a = m.(App)
	m, _ = a.setFlash("second", components.FlashInfo)
	a = m.(App)

	m, _ = a.Update(clearFlashMsg{seq: a.flashSeq - 1})
	a = m.(App)
	if a.flash != "second" {
		t.Errorf("stale clear removed flash: %q", a.flash)
	}
	m, _ = a.Update(clearFlashMsg{seq: a.flashSeq})
	a = m.(App)
	if a.flash != "" {
		t.Errorf("flash = %q, want cleared", a.flash)
	}
}

func TestSettingsSave(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "x")
	a.settings.cursor = 1 // unit label

	m, _ := a.settingsStartEdit()
	a = m.(App)
	a.settings.input.SetValue("bn")
	a = press(t, a, "enter")

	if a.settings.saveErr != nil {
		t.Fatalf("save: %v", a.settings.saveErr)
	}
	if a.unitLabel() != "bn" {
		t.Errorf("unit label = %q", a.unitLabel())
	}
	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.General.UnitLabel != "bn" {
		t.Errorf("saved unit label = %q", loaded.General.UnitLabel)
	}

	a.settings.cursor = 0 // theme
	m, _ = a.settingsStartEdit()
	a = m.(App)
	a.settings.input.SetValue("solarized")
	a = press(t, a, "enter")
	if a.settings.saveErr == nil {
		t.Error("unknown theme should be rejected")
	}
	if a.cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("theme changed to %q", a.cfg.Appearance.Theme)
	}
}

func TestViewRendersEachTab(t *testing.T) {
	a := newTestApp(t)
	a.proposal.Name = "Digital fund"
	a.proposal.Cost = "3"
	m, _ := a.completeForm()
	a = m.(App)

	want := map[int]string{
		tabOverview:  "Initial Negotiable",
		tabProposals: "Digital fund",
		tabResources: "No resources added yet",
		tabSettings:  "Unit Label",
	}
	for tab, text := range want {
		a.activeTab = tab
		view := a.View()
		if !strings.Contains(view, text) {
			t.Errorf("tab %d view missing %q", tab, text)
		}
		if h := lipgloss.Height(view); h != 50 {
			t.Errorf("tab %d view height = %d, want 50", tab, h)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if view := m.(App).View(); !strings.Contains(view, "too narrow") {
		t.Errorf("view = %q", view)
	}
}
