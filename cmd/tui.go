package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/tui"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("the dashboard needs a terminal; use `mepbudget headings` or `mepbudget run` for plain output")
	}

	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	sess, err := newSession()
	if err != nil {
		return err
	}

	// Background fills only show up with a color profile; --no-color keeps Ascii.
	if !flagNoColor && os.Getenv("NO_COLOR") == "" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	app := tui.NewApp(sess, cfg, !config.Exists())
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
