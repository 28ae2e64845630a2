// Package tui provides the interactive Bubble Tea dashboard for mepbudget.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/report"
	"github.com/mepalumni/mepbudget/internal/tui/components"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ExportDoneMsg is sent when a background CSV export finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// clearFlashMsg expires the status bar message with the matching sequence.
type clearFlashMsg struct{ seq int }

// App is the root Bubble Tea model.
type App struct {
	session *budget.Session
	cfg     config.Config

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Active huh form, if any
	form      *huh.Form
	formKind  formKind
	proposal  *proposalValues
	resource  *resourceValues
	setup     *setupValues
	rejection string

	// Per-tab state
	proposalScroll int
	resourceScroll int
	settings       settingsState

	// Status bar
	flash      string
	flashLevel int
	flashSeq   int
	exporting  bool
	spinner    spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	flashTimeout = 6 * time.Second
)

// NewApp creates the dashboard for sess. When the config file does not
// exist yet the setup form is shown first.
func NewApp(sess *budget.Session, cfg config.Config, firstRun bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	proposal, resource := newFormValues(sess.Snapshot())
	a := App{
		session:  sess,
		cfg:      cfg,
		proposal: proposal,
		resource: resource,
		setup:    newSetupValues(cfg),
		spinner:  sp,
	}
	if firstRun {
		a.form = newSetupForm(a.setup)
		a.formKind = formSetup
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.form != nil {
		return a.form.Init()
	}
	return nil
}

func (a App) unitLabel() string {
	return a.cfg.General.UnitLabel
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.showHelp || a.settings.editing {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scroll(-1)
		case tea.MouseButtonWheelDown:
			a.scroll(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case ExportDoneMsg:
		a.exporting = false
		if msg.Err != nil {
			return a.setFlash("Export failed: "+msg.Err.Error(), components.FlashError)
		}
		return a.setFlash("Report written to "+msg.Path, components.FlashSuccess)

	case clearFlashMsg:
		if msg.seq == a.flashSeq {
			a.flash = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.exporting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.form != nil {
			if key == "esc" {
				return a.closeForm()
			}
			return a.updateForm(msg)
		}

		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "p":
			return a.openForm(formProposal)
		case "n":
			return a.openForm(formResource)
		case "e":
			return a.startExport()
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "j", "down":
			a.scroll(1)
			return a, nil
		case "k", "up":
			a.scroll(-1)
			return a, nil
		}

		if a.activeTab == tabSettings {
			switch key {
			case "enter":
				return a.settingsStartEdit()
			}
		}

		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil
	}

	// Cursor blinks and other internal messages belong to the open form.
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) openForm(kind formKind) (tea.Model, tea.Cmd) {
	a.formKind = kind
	a.rejection = ""
	switch kind {
	case formProposal:
		a.form = newProposalForm(a.session, a.proposal, a.unitLabel(), "")
	case formResource:
		a.form = newResourceForm(a.session, a.resource, a.unitLabel(), "")
	default:
		a.form = newSetupForm(a.setup)
	}
	a.form = a.form.WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) closeForm() (tea.Model, tea.Cmd) {
	a.form = nil
	a.formKind = formNone
	a.rejection = ""
	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.completeForm()
	case huh.StateAborted:
		return a.closeForm()
	}
	return a, cmd
}

// completeForm runs the command behind the finished form. A rejected
// command reopens the same form with the values intact.
func (a App) completeForm() (tea.Model, tea.Cmd) {
	var (
		done string
		err  error
	)
	switch a.formKind {
	case formProposal:
		done, err = a.submitProposal()
	case formResource:
		done, err = a.submitResources()
	case formSetup:
		if err := a.saveSetupConfig(); err != nil {
			a.form = nil
			a.formKind = formNone
			return a.setFlash("Saving config failed: "+err.Error(), components.FlashError)
		}
		a.form = nil
		a.formKind = formNone
		return a.setFlash("Saved "+config.ConfigPath(), components.FlashSuccess)
	}

	if err != nil {
		a.rejection = rejectionText(err)
		if a.formKind == formProposal {
			a.form = newProposalForm(a.session, a.proposal, a.unitLabel(), a.rejection)
		} else {
			a.form = newResourceForm(a.session, a.resource, a.unitLabel(), a.rejection)
		}
		a.form = a.form.WithWidth(a.formWidth())
		return a, a.form.Init()
	}

	a.form = nil
	a.formKind = formNone
	a.rejection = ""
	return a.setFlash(done, components.FlashSuccess)
}

func (a App) startExport() (tea.Model, tea.Cmd) {
	if a.exporting {
		return a, nil
	}
	a.exporting = true
	return a, tea.Batch(a.spinner.Tick, exportCmd(a.session.Snapshot(), a.cfg.ExportDir()))
}

func exportCmd(snap *budget.State, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := report.WriteFile(dir, snap)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func (a App) setFlash(msg string, level int) (tea.Model, tea.Cmd) {
	a.flashSeq++
	a.flash = msg
	a.flashLevel = level
	seq := a.flashSeq
	return a, tea.Tick(flashTimeout, func(time.Time) tea.Msg { return clearFlashMsg{seq: seq} })
}

func (a *App) scroll(delta int) {
	switch a.activeTab {
	case tabProposals:
		a.proposalScroll = clampScroll(a.proposalScroll+delta, len(budget.ProposalLog(a.session.Snapshot())))
	case tabResources:
		a.resourceScroll = clampScroll(a.resourceScroll+delta, len(a.session.Snapshot().Resources()))
	case tabSettings:
		a.settings.cursor = clampScroll(a.settings.cursor+delta, len(settingsFields))
	}
}

func clampScroll(v, n int) int {
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) formWidth() int {
	return components.CardInnerWidth(min(a.contentWidth(), 90))
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.formKind == formSetup && a.form != nil {
		return a.viewSetup()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  mepbudget needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewSetup() string {
	t := theme.Active
	card := a.renderForm(min(a.contentWidth(), 90))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o l r x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Scroll lists"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"p", "Submit a proposal"},
			{"n", "Add new own resources"},
			{"e", "Export CSV report"},
			{"Enter", "Edit setting"},
			{"Esc", "Cancel form"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	flash := a.flash
	if a.exporting {
		flash = a.spinner.View() + " Exporting report..."
	}
	statusBar := components.RenderStatusBar(w, flash, a.flashLevel)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.form != nil:
		content = a.renderForm(cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabProposals:
		content = a.renderProposalsTab(cw, contentH)
	case a.activeTab == tabResources:
		content = a.renderResourcesTab(cw, contentH)
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// Tab indexes into components.Tabs.
const (
	tabOverview = iota
	tabProposals
	tabResources
	tabSettings
)

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
