package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/groupmotion/internal/bench"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/platform/tui"
	"github.com/vovakirdan/groupmotion/internal/sim"
)

var flagFPS int

var watchCmd = &cobra.Command{
	Use:   "watch [scenario]",
	Short: "Watch a scenario as a live heatmap",
	Long: `Step a scenario on a timer and draw how many objects sit in each
viewport section.

Controls:
  P/Space    - Pause
  N/Right    - Step one frame while paused
  M/Tab      - Cycle mode (restarts the world)
  R          - Restart
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Examples:
  groupmotion watch
  groupmotion watch orbit --preset light --fps 60`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) {
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

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	tickRate := cfg.Workload.TickRate
	if flagFPS > 0 {
		tickRate = flagFPS
	}

	wl := bench.WorkloadFromConfig(cfg)
	build := func(m motion.Mode) (*sim.Runner, error) {
		return bench.Build(wl, m, pool, logger)
	}

	m, err := tui.NewWatchModel(wl.Scenario, build, mode, tickRate, width, height)
	if err != nil {
		fatal("%v", err)
	}
	if err := tui.RunWatch(m); err != nil {
		fatal("%v", err)
	}
}
