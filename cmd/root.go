package cmd

import (
	"fmt"
	"os"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/config"
	"github.com/mepalumni/mepbudget/internal/scenario"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagQuiet    bool
	flagNoColor  bool
	flagEnvFile  string
	flagScenario string
)

var rootCmd = &cobra.Command{
	Use:   "mepbudget",
	Short: "MEP budget simulation dashboard",
	Long: "Simulate how MEP proposals and new own resources move the negotiable\n" +
		"budget of each heading, then export the result as a CSV report.",
	SilenceUsage:      true,
	PersistentPreRunE: setupGlobals,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file with MEPBUDGET_* overrides")
	rootCmd.PersistentFlags().StringVarP(&flagScenario, "scenario", "s", "", "Seed the session from a scenario file")
}

func setupGlobals(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return err
	}
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return nil
}

// loadConfig loads the config file, falling back to defaults with a
// warning when it cannot be read.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		warnf("%v (using defaults)", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newSession returns a session seeded from --scenario, or the default
// catalog. Rejected scenario steps are reported and skipped.
func newSession() (*budget.Session, error) {
	if flagScenario == "" {
		return budget.NewSession(budget.DefaultCatalog())
	}

	sc, err := scenario.Load(flagScenario)
	if err != nil {
		return nil, err
	}
	sess, res, err := sc.Run(false)
	if err != nil {
		return nil, err
	}
	infof("Seeded %d of %d steps from %s\n", res.Applied(), len(sc.Steps), flagScenario)
	for _, r := range res.Rejected {
		warnf("step %d skipped: %s", r.Index+1, r.Err)
	}
	return sess, nil
}

func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format, args...)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  Warning: "+format+"\n", args...)
}
