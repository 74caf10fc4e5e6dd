package main

import (
	"fmt"
	"log/slog"
	"os"

	"corkyctl/internal/config"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
	debug      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "corkyctl",
		Short: "Send a control message to the corky bot service over ZMQ",
		Long: "corkyctl builds one [status, action, data] control message and fires it\n" +
			"at the corky bot service over a ZeroMQ DEALER socket, then exits.\n" +
			"Sends are fire-and-forget: no delivery acknowledgment is awaited.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			// Diagnostic trace is this tool's product, so it goes to stdout.
			logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		},
		RunE: runSend,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default: ~/.corky/config.toml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "verbose tracing")

	addSendFlags(root)
	root.AddCommand(historyCmd())
	root.AddCommand(versionCmd())
	return root
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadClientConfig loads the shared corky config, falling back to defaults
// when the file does not exist.
func loadClientConfig() (*config.Config, error) {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if config.IsNotExist(err) {
			logger.Debug("config not found, using defaults", "path", cfgPath)
			return config.Defaults(), nil
		}
		return nil, err
	}
	logger.Debug("config loaded", "path", cfgPath)
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the corkyctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("corkyctl " + version)
		},
	}
}
