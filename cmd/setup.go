package cmd

import (
	"errors"
	"fmt"

	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Env overrides are not written back.
	cfg, err := config.LoadFile()
	if err != nil {
		warnf("%v (using defaults)", err)
		cfg = config.DefaultConfig()
	}

	form, apply := tui.NewSetup(cfg)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := config.Save(apply()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `mepbudget setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
