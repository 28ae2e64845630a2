package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mepalumni/mepbudget/internal/cli"
	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/tui/components"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settingsField is one editable config key shown on the settings tab.
type settingsField struct {
	label       string
	key         string
	placeholder string
	value       func(config.Config) string
}

var settingsFields = []settingsField{
	{"Theme", "appearance.theme", strings.Join(theme.Names(), ", "),
		func(c config.Config) string { return c.Appearance.Theme }},
	{"Unit Label", "general.unit_label", "B",
		func(c config.Config) string { return c.General.UnitLabel }},
	{"Export Directory", "export.dir", "(working directory)",
		func(c config.Config) string { return c.Export.Dir }},
	{"Server Address", "server.addr", "127.0.0.1:8788",
		func(c config.Config) string { return c.Server.Addr }},
	{"Events Buffer", "server.events_buffer", "200",
		func(c config.Config) string { return strconv.Itoa(c.Server.EventsBuffer) }},
}

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if last save failed
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	f := settingsFields[a.settings.cursor]

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	ti.Placeholder = f.placeholder
	ti.SetValue(f.value(a.cfg))
	ti.Focus()

	a.settings.input = ti
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited value and writes the config file. The
// in-memory config only changes when the value is accepted.
func (a *App) settingsSave() {
	f := settingsFields[a.settings.cursor]
	val := strings.TrimSpace(a.settings.input.Value())

	if f.key == "appearance.theme" && !theme.Valid(val) {
		a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
		return
	}

	next := a.cfg
	if err := next.Set(f.key, val); err != nil {
		a.settings.saveErr = err
		return
	}
	if err := config.Update(f.key, val); err != nil {
		a.settings.saveErr = err
		return
	}

	a.cfg = next
	a.settings.saveErr = nil
	if f.key == "appearance.theme" {
		theme.SetActive(val)
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	innerW := components.CardInnerWidth(cw)

	var form strings.Builder
	for i, f := range settingsFields {
		value := f.value(a.cfg)
		if value == "" {
			value = "(not set)"
		}

		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			row := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")) +
				selectedStyle.Render(value)
			form.WriteString(lipgloss.PlaceHorizontal(innerW, lipgloss.Left, row,
				lipgloss.WithWhitespaceBackground(t.SurfaceBright)))
		default:
			form.WriteString(valueStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			form.WriteString(valueStyle.Render(value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(warnStyle.Render("Not saved: " + a.settings.saveErr.Error()))
		form.WriteString("\n")
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	totals := a.summary().Totals
	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file:    ") + valueStyle.Render(config.ConfigPath()) + "\n")
	info.WriteString(labelStyle.Render("Export dir:     ") + valueStyle.Render(a.cfg.ExportDir()) + "\n")
	info.WriteString(labelStyle.Render("Headings:       ") + valueStyle.Render(strconv.Itoa(len(a.session.Snapshot().Headings()))) + "\n")
	info.WriteString(labelStyle.Render("Commands:       ") + valueStyle.Render(
		cli.FormatCount(totals.Proposals, "proposal")+", "+cli.FormatCount(totals.Resources, "resource addition")))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Session", info.String(), cw))
	return b.String()
}
