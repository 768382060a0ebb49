package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netpong/tui/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by the interactive and headless commands.
type globalFlags struct {
	configPath string
	host       string
	port       int
	transport  string
	logFile    string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "netpong",
		Short: "Terminal client for two-player network pong",
		Long: `netpong connects to a pong server, shows the match in the terminal
and sends your paddle moves back.

Examples:
  netpong
  netpong --host 192.168.1.20 --port 8080
  netpong --config netpong.yaml
  netpong headless --autopilot`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&flags.host, "host", "H", "", "Server host (default from config)")
	pf.IntVarP(&flags.port, "port", "p", 0, "Server port (default from config)")
	pf.StringVar(&flags.transport, "transport", "", `Transport, "tcp" or "ws"`)
	pf.StringVar(&flags.logFile, "log-file", "", "Log file (default from config)")

	rootCmd.AddCommand(
		headlessCmd(&flags),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// load reads the config file and applies flags the user actually set.
func (f *globalFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Server.Host = f.host
	}
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("transport") {
		cfg.Server.Transport = f.transport
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
