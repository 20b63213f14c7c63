// groupmotion drives the group motion engine: it runs scenarios, compares
// scheduling modes against the serial checksum, and renders live heatmaps.
//
// Usage:
//
//	groupmotion list                 - List available scenarios
//	groupmotion run [scenario]       - Run a scenario in one mode
//	groupmotion bench [scenario]     - Run every mode and compare checksums
//	groupmotion watch [scenario]     - Watch a scenario as a live heatmap
//	groupmotion runs [scenario]      - Show recorded runs
//	groupmotion serve                - Serve the watch view over SSH
//	groupmotion config               - Print the effective configuration
//
// Global flags:
//
//	--config <path>   - Config file (default search: ~/.groupmotion, ./configs)
//	--preset <name>   - Workload size: light, normal, heavy, stress
//	--mode <mode>     - Scheduling mode: auto, serial, parallel
//	--db <path>       - Run history database
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/groupmotion/internal/config"
	"github.com/vovakirdan/groupmotion/internal/registry"
	"github.com/vovakirdan/groupmotion/internal/storage"
	"github.com/vovakirdan/groupmotion/internal/taskpool"

	// Import scenarios to register them
	_ "github.com/vovakirdan/groupmotion/internal/scenarios/conveyor"
	_ "github.com/vovakirdan/groupmotion/internal/scenarios/mixed"
	_ "github.com/vovakirdan/groupmotion/internal/scenarios/orbit"
	_ "github.com/vovakirdan/groupmotion/internal/scenarios/scatter"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagDBPath   string
	flagPreset   string
	flagMode     string
	flagWorkers  int
	flagObjects  int
	flagGroups   int
	flagFrames   int
	flagSeed     int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "groupmotion",
	Short: "groupmotion - parallel group transforms over sectioned scenes",
	Long: `groupmotion moves and rotates groups of scene objects every frame,
spreading the work over a worker pool while keeping results identical
to a serial run.

Available commands:
  list     - Show all available scenarios
  run      - Run a scenario in one mode
  bench    - Compare modes against the serial checksum
  watch    - Live occupancy heatmap
  runs     - Recorded run history
  serve    - Start SSH server for remote watching
  config   - Print the effective configuration

Examples:
  groupmotion list
  groupmotion run orbit --mode parallel
  groupmotion bench --preset heavy --save
  groupmotion watch conveyor
  groupmotion serve --ssh :2222`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&flagDBPath, "db", "", "Path to run history database (default from config)")
	pf.StringVar(&flagPreset, "preset", "", "Workload preset: light, normal, heavy, stress")
	pf.StringVar(&flagMode, "mode", "", "Scheduling mode: auto, serial, parallel")
	pf.IntVar(&flagWorkers, "workers", 0, "Worker goroutines (0 = one per CPU)")
	pf.IntVar(&flagObjects, "objects", 0, "Number of scene objects")
	pf.IntVar(&flagGroups, "groups", 0, "Number of groups")
	pf.IntVar(&flagFrames, "frames", 0, "Frames to run")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed for population")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns the stderr logger at the --log-level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "groupmotion",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig loads the config file, then applies the preset and every flag
// that was set on the command line. A positional scenario overrides the
// configured one.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagPreset != "" {
		p, err := config.ParsePreset(flagPreset)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, p)
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Engine.Mode = flagMode
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers = flagWorkers
	}
	if flags.Changed("objects") {
		cfg.Workload.Objects = flagObjects
	}
	if flags.Changed("groups") {
		cfg.Workload.Groups = flagGroups
	}
	if flags.Changed("frames") {
		cfg.Workload.Frames = flagFrames
	}
	if flags.Changed("seed") {
		cfg.Workload.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if len(args) > 0 {
		cfg.Workload.Scenario = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if !registry.Exists(cfg.Workload.Scenario) {
		return cfg, fmt.Errorf("unknown scenario %q, run 'groupmotion list' to see available scenarios", cfg.Workload.Scenario)
	}
	return cfg, nil
}

// newPool starts the worker pool for the configured engine.
func newPool(cfg config.Config, logger *log.Logger) (*taskpool.Pool, error) {
	return taskpool.New(
		taskpool.WithWorkers(cfg.Engine.Workers),
		taskpool.WithLogger(logger),
	)
}

// openStore opens the run history database from the config.
func openStore(cfg config.Config) (*storage.Store, error) {
	return storage.Open(cfg.Storage.Path)
}

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
