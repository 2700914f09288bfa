package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/speaker-autogroup/internal/logger"
)

// Config holds the settings shared by speaker-groupd and the bridge simulator.
type Config struct {
	// BridgeAddress is the speaker bridge gRPC address.
	// When empty the daemon locates the bridge over mDNS.
	BridgeAddress string `yaml:"bridge_addr"`
	// Interval is the fixed delay between two reconciliation passes.
	Interval time.Duration `yaml:"interval"`
	// DiscoveryTimeout bounds speaker discovery during a pass.
	DiscoveryTimeout time.Duration `yaml:"discovery_timeout"`
	// LookupTimeout bounds each by-name speaker lookup during a pass.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	// GroupLookupTimeout bounds the coordinator lookup of the batch grouper.
	GroupLookupTimeout time.Duration `yaml:"group_lookup_timeout"`
	// CallTimeout bounds every other bridge call (name, topology, join).
	CallTimeout time.Duration `yaml:"call_timeout"`
	// MetricsAddress is the listen address of the Prometheus endpoint; empty disables it.
	MetricsAddress string `yaml:"metrics_addr"`
	// LogLevel is the minimum level of emitted log lines.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for daemon settings.
	DefaultConfigFilename = "speaker-autogroup.yaml"

	// DefaultInterval is the delay between two passes.
	DefaultInterval = 5 * time.Second

	// DefaultDiscoveryTimeout is the time budget for speaker discovery.
	DefaultDiscoveryTimeout = 5 * time.Second

	// DefaultLookupTimeout is the time budget for a by-name lookup inside a pass.
	DefaultLookupTimeout = 5 * time.Second

	// DefaultGroupLookupTimeout is the time budget for the batch grouper's coordinator lookup.
	DefaultGroupLookupTimeout = 3 * time.Second

	// DefaultCallTimeout is the time budget for the remaining bridge calls.
	DefaultCallTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned for a log level ParseLogLevel rejects.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path yields the defaults, so the daemon runs
// with no configuration at all.
func Load(path string) (*Config, error) {
	explicit := path != "" && path != DefaultConfigFilename
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks addresses and the log level, then fills unset durations with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.BridgeAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.BridgeAddress); err != nil {
			return fmt.Errorf("invalid bridge address: %w", err)
		}
	}

	if cfg.MetricsAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	applyDefaults(cfg)

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	if cfg.DiscoveryTimeout <= 0 {
		cfg.DiscoveryTimeout = DefaultDiscoveryTimeout
	}

	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}

	if cfg.GroupLookupTimeout <= 0 {
		cfg.GroupLookupTimeout = DefaultGroupLookupTimeout
	}

	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
