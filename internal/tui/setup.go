package tui

import (
	"errors"
	"strings"

	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run answers while the setup form is active.
type setupValues struct {
	Theme     string
	UnitLabel string
	ExportDir string
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		Theme:     cfg.Appearance.Theme,
		UnitLabel: cfg.General.UnitLabel,
		ExportDir: cfg.Export.Dir,
	}
}

// newSetupForm builds the setup wizard bound to v. The same form backs
// `mepbudget setup` and the first run of the dashboard.
func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to mepbudget").
				Description("Simulate how MEP proposals and new own resources\nmove the negotiable budget of each heading."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewInput().
				Title("Unit label").
				Description("Shown after amounts on cards and tables.").
				Placeholder("B").
				Value(&v.UnitLabel).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("unit label is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Export directory").
				Description("Where CSV reports are written. Blank for the working directory.").
				Placeholder(".").
				Value(&v.ExportDir),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

// NewSetup returns the setup form for cfg and a function that applies the
// answers once the form completes.
func NewSetup(cfg config.Config) (*huh.Form, func() config.Config) {
	v := newSetupValues(cfg)
	return newSetupForm(v), func() config.Config { return v.apply(cfg) }
}

// apply copies the answers onto cfg.
func (v *setupValues) apply(cfg config.Config) config.Config {
	if theme.Valid(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}
	if label := strings.TrimSpace(v.UnitLabel); label != "" {
		cfg.General.UnitLabel = label
	}
	cfg.Export.Dir = strings.TrimSpace(v.ExportDir)
	return cfg
}

func (a *App) saveSetupConfig() error {
	a.cfg = a.setup.apply(a.cfg)
	theme.SetActive(a.cfg.Appearance.Theme)

	base, err := config.LoadFile()
	if err != nil {
		return err
	}
	return config.Save(a.setup.apply(base))
}
