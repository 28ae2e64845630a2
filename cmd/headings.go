package cmd

import (
	"fmt"

	"github.com/mepalumni/mepbudget/internal/cli"

	"github.com/spf13/cobra"
)

var headingsCmd = &cobra.Command{
	Use:   "headings",
	Short: "Print the budget headings with current figures",
	Args:  cobra.NoArgs,
	RunE:  runHeadings,
}

func init() {
	rootCmd.AddCommand(headingsCmd)
}

func runHeadings(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	sess, err := newSession()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MEP BUDGET  Headings"))
	fmt.Println()
	printHeadings(sess.Snapshot(), cfg.General.UnitLabel)
	return nil
}
