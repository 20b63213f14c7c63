package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/groupmotion/internal/bench"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/platform/tui"
	"github.com/vovakirdan/groupmotion/internal/sim"
	"github.com/vovakirdan/groupmotion/internal/taskpool"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagSessionPool int
)

var serveCmd = &cobra.Command{
	Use:   "serve [scenario]",
	Short: "Start the watch view SSH server",
	Long: `Start an SSH server that shows the live heatmap to every connection.

Each SSH connection gets its own world and its own worker pool, so
sessions never share engine state.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.groupmotion/host_key

Examples:
  groupmotion serve                           # Listen on :23234
  groupmotion serve orbit --ssh :2222         # Serve orbit on port 2222
  groupmotion serve --session-workers 4       # Bigger pool per session

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.MaximumNArgs(1),
	Run:  runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagSessionPool, "session-workers", defaults.Workers, "Worker goroutines per session")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		fatal("%v", err)
	}
	logger := newLogger()
	mode, _ := cfg.Mode()
	wl := bench.WorkloadFromConfig(cfg)

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.Workers = flagSessionPool
	sshCfg.Mode = mode
	sshCfg.TickRate = cfg.Workload.TickRate
	sshCfg.Title = wl.Scenario
	sshCfg.Build = func(pool *taskpool.Pool) tui.Builder {
		return func(m motion.Mode) (*sim.Runner, error) {
			return bench.Build(wl, m, pool, logger)
		}
	}

	server, err := tui.NewSSHServer(sshCfg, logger)
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting groupmotion SSH server on %s\n", sshCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(sshCfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fatal("server: %v", err)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
