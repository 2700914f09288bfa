//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speaker-autogroup/internal/config"
)

var errNoAnswer = errors.New("no answer")

// TestResolveBridgeAddress checks override, config and locator precedence.
func TestResolveBridgeAddress(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	located := 0
	locate := func(context.Context, *config.Config) (string, error) {
		located++

		return "192.168.1.20:50051", nil
	}

	cfg := config.Default()
	cfg.BridgeAddress = "bridge.lan:50051"

	address, err := ResolveBridgeAddress(ctx, cfg, "127.0.0.1:9000", locate)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", address)

	address, err = ResolveBridgeAddress(ctx, cfg, "", locate)
	require.NoError(t, err)
	require.Equal(t, "bridge.lan:50051", address)
	require.Zero(t, located)

	address, err = ResolveBridgeAddress(ctx, config.Default(), "", locate)
	require.NoError(t, err)
	require.Equal(t, "192.168.1.20:50051", address)
	require.Equal(t, 1, located)

	_, err = ResolveBridgeAddress(ctx, config.Default(), "", func(context.Context, *config.Config) (string, error) {
		return "", errNoAnswer
	})
	require.ErrorIs(t, err, errNoAnswer)
}

// TestConnect_UsesOverride dials lazily, so no bridge is needed.
func TestConnect_UsesOverride(t *testing.T) {
	t.Parallel()

	client, address, err := Connect(context.Background(), config.Default(), "127.0.0.1:1")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:1", address)
	require.NoError(t, client.Close())
}
