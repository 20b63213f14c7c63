package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/groupmotion/internal/bench"
	"github.com/vovakirdan/groupmotion/internal/config"
	"github.com/vovakirdan/groupmotion/internal/motion"
)

var (
	flagSave  bool
	flagModes []string
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Run a scenario in one mode",
	Long: `Populate a scenario and step it for the configured number of frames
in a single scheduling mode, then print frame timings and the final
checksum.

Examples:
  groupmotion run
  groupmotion run orbit --mode parallel --frames 1200
  groupmotion run scatter --preset stress --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

var benchCmd = &cobra.Command{
	Use:   "bench [scenario]",
	Short: "Compare scheduling modes",
	Long: `Run a scenario serially, then in every requested mode, and check that
each mode ends with the serial checksum. Exits non-zero on a mismatch.

Examples:
  groupmotion bench
  groupmotion bench conveyor --preset heavy
  groupmotion bench --modes parallel --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBench,
}

func init() {
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Record the run in history")
	benchCmd.Flags().BoolVar(&flagSave, "save", false, "Record the runs in history")
	benchCmd.Flags().StringSliceVar(&flagModes, "modes", []string{"auto", "parallel"}, "Modes to compare with serial")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		fatal("%v", err)
	}
	logger := newLogger()
	mode, _ := cfg.Mode()

	pool, err := newPool(cfg, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := bench.Run(ctx, bench.WorkloadFromConfig(cfg), mode, pool, logger)
	if err != nil {
		fatal("%v", err)
	}
	printResults([]bench.Result{res})

	if flagSave {
		saveResults(cfg, []bench.Result{res})
	}
}

func runBench(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		fatal("%v", err)
	}
	logger := newLogger()

	var modes []motion.Mode
	for _, s := range flagModes {
		m, err := motion.ParseMode(s)
		if err != nil {
			fatal("%v", err)
		}
		modes = append(modes, m)
	}

	pool, err := newPool(cfg, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := bench.Compare(ctx, bench.WorkloadFromConfig(cfg), modes, pool, logger)
	if err != nil {
		fatal("%v", err)
	}
	printResults(results)

	if flagSave {
		saveResults(cfg, results)
	}
	for _, r := range results {
		if !r.Matched {
			fmt.Fprintf(os.Stderr, "%s diverged from the serial run\n", r.Mode)
			os.Exit(1)
		}
	}
}

func printResults(results []bench.Result) {
	if len(results) == 0 {
		return
	}
	first := results[0]
	fmt.Printf("%s: %d objects, %d groups, %d frames\n\n",
		first.Scenario, first.Objects, first.Groups, first.Summary.Frames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  MODE\tWORKERS\tAVG\tP95\tMAX\tFPS\tALLOC\tGC\tCHECKSUM\tCHECK")
	for _, r := range results {
		s := r.Summary
		fmt.Fprintf(w, "  %s\t%d\t%v\t%v\t%v\t%.0f\t%.1fMB\t%d\t%016x\t%s\n",
			r.Mode, r.Workers,
			s.Avg.Round(time.Microsecond), s.P95.Round(time.Microsecond), s.Max.Round(time.Microsecond),
			s.FPS(), s.AllocMB, s.GCs, r.Checksum, checkLabel(r))
	}
	w.Flush()

	fmt.Println()
	var culled []string
	for _, r := range results {
		culled = append(culled, fmt.Sprintf("%s -%d/+%d", r.Mode, r.Deactivated, r.Activated))
	}
	fmt.Printf("Culled: %s\n", strings.Join(culled, ", "))
}

func checkLabel(r bench.Result) string {
	switch {
	case !r.Verified:
		return "-"
	case r.Matched:
		return "ok"
	default:
		return "DIFF"
	}
}

func saveResults(cfg config.Config, results []bench.Result) {
	store, err := openStore(cfg)
	if err != nil {
		fatal("cannot open database: %v", err)
	}
	defer store.Close()

	if err := bench.Save(store, results); err != nil {
		fatal("cannot save runs: %v", err)
	}
	fmt.Printf("Saved %d run(s) to %s\n", len(results), cfg.Storage.Path)
}
