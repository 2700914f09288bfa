package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/directory/remote"
	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
	"github.com/oshokin/speaker-autogroup/internal/repository/household"
	"github.com/oshokin/speaker-autogroup/internal/service/bridge"
)

// reservePort finds a free TCP address on localhost.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// writeConfig saves settings pointing at the bridge and returns their path.
func writeConfig(t *testing.T, bridgeAddr string, mutate func(*config.Config)) string {
	t.Helper()

	cfg := config.Default()
	cfg.BridgeAddress = bridgeAddr
	cfg.CallTimeout = 2 * time.Second

	if mutate != nil {
		mutate(cfg)
	}

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

// ungroupedHousehold writes three speakers playing alone.
func ungroupedHousehold(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "household.yaml")
	repo := household.NewFileRepository(path)

	require.NoError(t, repo.Save(context.Background(), &household.Layout{
		Speakers: []household.SpeakerSpec{
			{Name: "Kitchen", ID: "RINCON_000E58KITCHEN"},
			{Name: "Living Room", ID: "RINCON_000E58LIVING"},
			{Name: "Bedroom", ID: "RINCON_000E58BEDROOM"},
		},
	}))

	return path
}

// startBridge runs the bridge simulator on addr.
// Returns a stop function to gracefully shutdown the server.
func startBridge(t *testing.T, addr, householdPath string) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := writeConfig(t, addr, nil)

	go func() {
		options := &bridge.Options{
			ConfigPath:    cfgPath,
			ListenAddress: addr,
			HouseholdFile: householdPath,
		}

		_ = bridge.Run(ctx, options) //nolint:errcheck // Failures surface as dial errors in the test.
	}()

	// Wait briefly for server to start listening.
	time.Sleep(150 * time.Millisecond)

	return func() {
		cancel()
		time.Sleep(100 * time.Millisecond)
	}
}

// dial connects a remote directory to the bridge.
func dial(t *testing.T, addr string) *remote.Client {
	t.Helper()

	c, err := remote.Dial(context.Background(), addr,
		remote.WithCallTimeout(2*time.Second),
		remote.WithActor("tester@integration"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

// realGroups returns the multi-speaker groups as reported by the named speaker.
func realGroups(t *testing.T, c *remote.Client, name string) []speaker.Group {
	t.Helper()

	ctx := context.Background()

	s, err := c.Find(ctx, name, time.Second)
	require.NoError(t, err)

	topology, err := s.ZoneGroupState(ctx)
	require.NoError(t, err)

	return topology.RealGroups()
}

// coordinatorName returns the display name of the group's coordinator.
func coordinatorName(t *testing.T, g speaker.Group) string {
	t.Helper()

	m, ok := g.CoordinatorMember()
	require.True(t, ok)

	return m.Name
}
