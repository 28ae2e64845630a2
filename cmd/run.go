package cmd

import (
	"fmt"
	"strconv"

	"github.com/mepalumni/mepbudget/internal/cli"
	"github.com/mepalumni/mepbudget/internal/report"
	"github.com/mepalumni/mepbudget/internal/scenario"
	"github.com/mepalumni/mepbudget/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagRunExport bool
	flagRunOut    string
	flagRunSQLite string
	flagRunStrict bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.toml>",
	Short: "Replay a scenario file and print the resulting budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().BoolVar(&flagRunExport, "export", false, "Write the CSV report after the replay")
	runCmd.Flags().StringVarP(&flagRunOut, "out", "o", "", "Directory for the CSV report (default: config export dir)")
	runCmd.Flags().StringVar(&flagRunSQLite, "sqlite", "", "Also write the result to a SQLite database at this path")
	runCmd.Flags().BoolVar(&flagRunStrict, "strict", false, "Stop at the first rejected step")
	rootCmd.AddCommand(runCmd)
}

func runScenario(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	unit := cfg.General.UnitLabel

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	sess, res, err := sc.Run(flagRunStrict)
	if err != nil {
		return err
	}
	snap := sess.Snapshot()

	title := sc.Title
	if title == "" {
		title = args[0]
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle("MEP BUDGET  " + title))
	fmt.Println()
	fmt.Printf("  Applied %d of %d steps (%s, %s)\n\n",
		res.Applied(), len(sc.Steps),
		cli.FormatCount(len(res.Proposals), "proposal"),
		cli.FormatCount(len(res.Resources), "resource addition"))

	printHeadings(snap, unit)
	fmt.Println()
	printProposalLog(snap, unit)
	fmt.Println()
	printResourceLog(snap, unit)

	if len(res.Rejected) > 0 {
		rows := make([][]string, len(res.Rejected))
		for i, r := range res.Rejected {
			label := r.Step.Name
			if label == "" {
				label = r.Step.Kind
			}
			rows[i] = []string{strconv.Itoa(r.Index + 1), label, r.Err.KindName(), r.Err.Error()}
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Rejected Steps",
			Headers:  []string{"Step", "Name", "Reason", "Message"},
			Rows:     rows,
			TextCols: []int{1, 2, 3},
		}))
	}

	if flagRunExport {
		dir := flagRunOut
		if dir == "" {
			dir = cfg.ExportDir()
		}
		path, err := report.WriteFile(dir, snap)
		if err != nil {
			return err
		}
		fmt.Printf("\n  CSV report written to %s\n", path)
	}

	if flagRunSQLite != "" {
		if err := store.WriteReport(flagRunSQLite, snap, unit); err != nil {
			return err
		}
		fmt.Printf("  SQLite report written to %s\n", flagRunSQLite)
	}
	return nil
}
