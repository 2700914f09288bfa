package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/service/status"
	"github.com/oshokin/speaker-autogroup/internal/service/supervisor"
	"github.com/oshokin/speaker-autogroup/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// metricsAddress overrides the configured metrics listen address.
	metricsAddress string

	// rootCmd represents the base command running the grouping loop.
	rootCmd = &cobra.Command{
		Use:   "speaker-groupd [bridge-address]",
		Short: "Keep every speaker in a group.",
		Long: `Background service that keeps household speakers grouped.

Every 5 seconds it discovers all speakers through the speaker bridge.
A speaker playing alone joins the first existing group it sees.
When no group exists, all ungrouped speakers are put in one new group.
Failed passes are logged and retried after the delay.

The bridge address can be provided as argument or loaded from configuration file.
When neither is set, the bridge is located over mDNS.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return supervisor.Run(ctx, &supervisor.Options{
				ConfigPath:     configPath,
				BridgeAddress:  firstArg(args),
				MetricsAddress: metricsAddress,
				LogLevel:       logLevel,
			})
		},
	}

	// statusCmd prints what the next pass would do.
	statusCmd = &cobra.Command{
		Use:   "status [bridge-address]",
		Short: "Show how each speaker would be grouped.",
		Long:  "Run one pass without sending any join and print the decision for every speaker as a table.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return status.Run(ctx, &status.Options{
				ConfigPath:    configPath,
				BridgeAddress: firstArg(args),
				Output:        cmd.OutOrStdout(),
			})
		},
	}
)

// Execute runs the speaker-groupd CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return ""
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&metricsAddress, "metrics-addr", "", "serve Prometheus metrics on this address")

	rootCmd.AddCommand(statusCmd)
}
