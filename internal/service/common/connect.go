//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/directory/remote"
	"github.com/oshokin/speaker-autogroup/internal/logger"
	"github.com/oshokin/speaker-autogroup/internal/mdns"
)

// Locator finds the bridge address when none is configured.
type Locator func(ctx context.Context, cfg *config.Config) (string, error)

// LocateOverMDNS browses the local network for the bridge within the discovery timeout.
func LocateOverMDNS(ctx context.Context, cfg *config.Config) (string, error) {
	return mdns.Locate(ctx, cfg.DiscoveryTimeout)
}

// ResolveBridgeAddress picks the bridge address: override first, then the
// configured address, then locate.
func ResolveBridgeAddress(ctx context.Context, cfg *config.Config, override string, locate Locator) (string, error) {
	if override != "" {
		return override, nil
	}

	if cfg.BridgeAddress != "" {
		return cfg.BridgeAddress, nil
	}

	if locate == nil {
		locate = LocateOverMDNS
	}

	logger.Info(ctx, "No bridge address configured, browsing the local network")

	address, err := locate(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("locate bridge: %w", err)
	}

	return address, nil
}

// Connect dials the speaker bridge with the configured call timeout and the
// current actor attached to every call.
func Connect(ctx context.Context, cfg *config.Config, override string) (*remote.Client, string, error) {
	address, err := ResolveBridgeAddress(ctx, cfg, override, nil)
	if err != nil {
		return nil, "", err
	}

	actor, err := DetectActor()
	if err != nil {
		return nil, "", fmt.Errorf("detect actor: %w", err)
	}

	client, err := remote.Dial(ctx, address,
		remote.WithCallTimeout(cfg.CallTimeout),
		remote.WithActor(actor),
	)
	if err != nil {
		return nil, "", fmt.Errorf("dial bridge: %w", err)
	}

	return client, address, nil
}
