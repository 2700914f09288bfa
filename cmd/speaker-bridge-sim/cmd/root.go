package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/repository/household"
	"github.com/oshokin/speaker-autogroup/internal/service/bridge"
	"github.com/oshokin/speaker-autogroup/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// householdFile stores the path to the household layout YAML file.
	householdFile string
	// advertise enables mDNS registration.
	advertise bool
	// instance is the advertised mDNS instance name.
	instance string

	// rootCmd represents the base command for the bridge simulator.
	rootCmd = &cobra.Command{
		Use:   "speaker-bridge-sim [listen-address]",
		Short: "Serve a simulated household of speakers.",
		Long: `Speaker bridge simulator for testing speaker-groupd without real devices.

Loads speakers and their groups from a YAML household file and serves them over gRPC.
A missing household file is created with three ungrouped demo speakers.
Joins change the simulated topology the way real speakers do, but are not saved.

Listen address can be provided as argument, otherwise the port of bridge_addr
from the configuration file is used, or :50051.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return bridge.Run(ctx, &bridge.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				HouseholdFile: householdFile,
				Advertise:     advertise,
				Instance:      instance,
			})
		},
	}
)

// Execute runs the speaker-bridge-sim CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&householdFile, "household", "f", household.DefaultFilename, "path to household layout file")
	rootCmd.Flags().BoolVar(&advertise, "advertise", true, "advertise the bridge over mDNS")
	rootCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (defaults to hostname)")
}
