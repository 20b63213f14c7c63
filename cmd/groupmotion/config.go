package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/groupmotion/internal/config"
)

var flagConfigDefault bool

var configCmd = &cobra.Command{
	Use:   "config [scenario]",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the config file, preset and flags are
applied, as YAML. With --default, print the built-in defaults instead,
which is a good starting point for ~/.groupmotion/config.yaml.

Examples:
  groupmotion config
  groupmotion config --preset stress
  groupmotion config --default > ~/.groupmotion/config.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in defaults")
}

func runConfig(cmd *cobra.Command, args []string) {
	if flagConfigDefault {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		fatal("%v", err)
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Print(string(out))
}
