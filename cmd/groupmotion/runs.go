package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/groupmotion/internal/config"
	"github.com/vovakirdan/groupmotion/internal/platform/tui"
	"github.com/vovakirdan/groupmotion/internal/storage"
)

var (
	flagRunsTUI   bool
	flagRunsLimit int
	flagRunsClear bool
	flagRunsStats bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show recorded runs",
	Long: `Display run history from the database, newest first.

Examples:
  groupmotion runs
  groupmotion runs orbit --limit 20
  groupmotion runs --stats
  groupmotion runs --tui
  groupmotion runs orbit --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse runs interactively")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the runs of a scenario")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show per-scenario statistics")
}

func runRuns(cmd *cobra.Command, args []string) {
	// History does not need a valid workload, so the config is only loaded.
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}

	store, err := openStore(cfg)
	if err != nil {
		fatal("cannot open database: %v", err)
	}
	defer store.Close()

	if flagRunsTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunRuns(store, width, height); err != nil {
			fatal("%v", err)
		}
		return
	}

	if flagRunsStats {
		printStats(store)
		return
	}

	if len(args) == 0 {
		if flagRunsClear {
			fatal("--clear needs a scenario")
		}
		runs, err := store.RecentRuns(flagRunsLimit)
		if err != nil {
			fatal("%v", err)
		}
		printRuns("Recent runs", runs)
		return
	}

	scenario := args[0]
	if flagRunsClear {
		if err := store.ClearRuns(scenario); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Cleared runs for %s.\n", scenario)
		return
	}

	runs, err := store.RunsFor(scenario, flagRunsLimit)
	if err != nil {
		fatal("%v", err)
	}
	printRuns("Runs for "+scenario, runs)

	for _, mode := range []string{"serial", "auto", "parallel"} {
		best, err := store.BestRun(scenario, mode)
		if err != nil || best == nil {
			continue
		}
		fmt.Printf("  Best %-8s %v (%d objects)\n", mode+":", best.AvgFrame.Round(time.Microsecond), best.Objects)
	}
}

func printRuns(title string, runs []storage.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Run 'groupmotion bench --save' to record one!")
		return
	}

	fmt.Printf("%s:\n\n", title)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  WHEN\tSCENARIO\tMODE\tOBJECTS\tFRAMES\tWORKERS\tAVG\tP95\tCHECK")
	for _, r := range runs {
		check := "-"
		if r.Verified {
			check = "ok"
			if !r.Matched {
				check = "DIFF"
			}
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%d\t%d\t%d\t%v\t%v\t%s\n",
			r.CreatedAt.Format("Jan 02 15:04"), r.Scenario, r.Mode,
			r.Objects, r.Frames, r.Workers,
			r.AvgFrame.Round(time.Microsecond), r.P95Frame.Round(time.Microsecond), check)
	}
	w.Flush()
	fmt.Println()
}

func printStats(store *storage.Store) {
	stats, err := store.AllScenarioStats()
	if err != nil {
		fatal("%v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	slices.Sort(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  SCENARIO\tRUNS\tBEST AVG\tMISMATCHES\tLAST RUN")
	for _, name := range names {
		s := stats[name]
		fmt.Fprintf(w, "  %s\t%d\t%v\t%d\t%s\n",
			s.Scenario, s.Runs, s.BestAvg.Round(time.Microsecond), s.Mismatches, s.LastRun.Format("Jan 02 15:04"))
	}
	w.Flush()
}
