package supervisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/logger"
	"github.com/oshokin/speaker-autogroup/internal/metrics"
	"github.com/oshokin/speaker-autogroup/internal/service/common"
	"github.com/oshokin/speaker-autogroup/internal/service/reconciler"
	"github.com/oshokin/speaker-autogroup/internal/version"
)

// Options controls the speaker-groupd process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// BridgeAddress provides an optional speaker bridge address override.
	BridgeAddress string
	// MetricsAddress provides an optional metrics listen address override.
	MetricsAddress string
	// LogLevel provides an optional log level override.
	LogLevel string
}

// errUnknownLogLevel is returned for a --log-level value the logger rejects.
var errUnknownLogLevel = errors.New("unknown log level")

// Run loads settings, connects to the bridge and supervises passes until ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "speaker-groupd")

	cfg, err := LoadSettings(opts)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Starting speaker-groupd", version.KV()...)

	client, address, err := common.Connect(ctx, cfg, opts.BridgeAddress)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	passMetrics, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	rec := reconciler.New(client, reconciler.WithTimeouts(reconciler.Timeouts{
		Discovery:   cfg.DiscoveryTimeout,
		Lookup:      cfg.LookupTimeout,
		GroupLookup: cfg.GroupLookupTimeout,
	}))

	sup := New(rec, WithInterval(cfg.Interval), WithObserver(passMetrics))

	logger.InfoKV(ctx, "Supervising speaker groups",
		"bridge_address", address,
		"interval", cfg.Interval.String())

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return sup.Run(groupCtx)
	})

	if cfg.MetricsAddress != "" {
		group.Go(func() error {
			return metrics.Serve(groupCtx, cfg.MetricsAddress, registry)
		})
	}

	return group.Wait()
}

// LoadSettings reads the configuration, applies CLI overrides and sets the log level.
func LoadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if opts.MetricsAddress != "" {
		cfg.MetricsAddress = opts.MetricsAddress
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	logger.SetLevel(level)

	return cfg, nil
}
