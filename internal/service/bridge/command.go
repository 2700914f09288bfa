package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	api "github.com/oshokin/speaker-autogroup/internal/api/grpc/bridge"
	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/directory/memory"
	"github.com/oshokin/speaker-autogroup/internal/logger"
	"github.com/oshokin/speaker-autogroup/internal/mdns"
	"github.com/oshokin/speaker-autogroup/internal/repository/household"
	"github.com/oshokin/speaker-autogroup/internal/version"
)

// Options controls the bridge simulator process.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// HouseholdFile specifies the household layout YAML; a demo layout is written when missing.
	HouseholdFile string
	// Advertise registers the bridge over mDNS.
	Advertise bool
	// Instance is the mDNS instance name; defaults to the hostname.
	Instance string
}

// errUnexpectedAddress is returned when the listener is not a TCP listener.
var errUnexpectedAddress = errors.New("unexpected listener address")

// DefaultListenAddress is used when neither the config nor the CLI names one.
const DefaultListenAddress = ":50051"

// Run serves the simulated household until ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "speaker-bridge")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	householdFile := opts.HouseholdFile
	if householdFile == "" {
		householdFile = household.DefaultFilename
	}

	listenAddress, err := resolveListenAddress(settings.BridgeAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	layout, err := loadLayout(ctx, household.NewFileRepository(householdFile))
	if err != nil {
		return err
	}

	home, err := memory.New(layout)
	if err != nil {
		return fmt.Errorf("build household: %w", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterBridgeServer(grpcServer, api.NewServer(home))

	if opts.Advertise {
		stopAdvertising, advErr := advertise(ctx, opts.Instance, lis.Addr())
		if advErr != nil {
			_ = lis.Close()

			return advErr
		}

		defer stopAdvertising()
	}

	logger.InfoKV(ctx, "Speaker bridge listening",
		append([]any{
			"listen_address", lis.Addr().String(),
			"household_file", householdFile,
			"speakers", len(layout.Speakers),
		}, version.KV()...)...)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// loadLayout reads the household, seeding the file with the demo layout when it does not exist.
func loadLayout(ctx context.Context, repo household.Repository) (*household.Layout, error) {
	layout, err := repo.Load(ctx)

	switch {
	case err == nil:
		return layout, nil
	case errors.Is(err, household.ErrNotFound):
		layout = household.DemoLayout()
		if err = repo.Save(ctx, layout); err != nil {
			return nil, fmt.Errorf("seed household: %w", err)
		}

		logger.Info(ctx, "Household file missing, wrote demo layout")

		return layout, nil
	default:
		return nil, fmt.Errorf("load household: %w", err)
	}
}

// advertise registers the bridge over mDNS and returns the function that withdraws it.
func advertise(ctx context.Context, instance string, addr net.Addr) (func(), error) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnexpectedAddress, addr)
	}

	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("hostname: %w", err)
		}

		instance = hostname
	}

	server, err := mdns.Advertise(instance, tcpAddr.Port)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Advertising speaker bridge", "instance", instance, "service", mdns.ServiceType)

	return server.Shutdown, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// An override wins; otherwise the port of the configured bridge address is
// bound on all interfaces; otherwise DefaultListenAddress.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return DefaultListenAddress, nil
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid bridge address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
