// Package cmd implements the mepbudget CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting, e.g. `config set general.unit_label bn`",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Unit label:    %s\n", cfg.General.UnitLabel)
	fmt.Println()

	fmt.Println("  [Export]")
	fmt.Printf("    Directory:     %s\n", cfg.ExportDir())
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Printf("  Environment overrides: %s, %s, %s\n", config.EnvExportDir, config.EnvAddr, config.EnvTheme)
	fmt.Println("  Run `mepbudget setup` to reconfigure.")
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], strings.TrimSpace(args[1])
	if key == "appearance.theme" && !theme.Valid(value) {
		return fmt.Errorf("unknown theme %q (available: %s)", value, strings.Join(theme.Names(), ", "))
	}
	// Env overrides are not written back.
	if err := config.Update(key, value); err != nil {
		return fmt.Errorf("updating config: %w", err)
	}
	fmt.Printf("  %s = %s\n", key, value)
	return nil
}
