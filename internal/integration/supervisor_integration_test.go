package integration

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/service/status"
	"github.com/oshokin/speaker-autogroup/internal/service/supervisor"
)

// TestSupervisor_GroupsAndExposesMetrics runs the daemon loop against a live bridge and cancels it.
func TestSupervisor_GroupsAndExposesMetrics(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	stop := startBridge(t, addr, ungroupedHousehold(t))
	defer stop()

	metricsAddr := reservePort(t)
	cfgPath := writeConfig(t, addr, func(cfg *config.Config) {
		cfg.Interval = 50 * time.Millisecond
		cfg.MetricsAddress = metricsAddr
	})

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- supervisor.Run(runCtx, &supervisor.Options{ConfigPath: cfgPath})
	}()

	// Wait for a few passes, then scrape before cancelling.
	time.Sleep(400 * time.Millisecond)

	resp, err := http.Get("http://" + metricsAddr + "/metrics") //nolint:noctx // Test scrape.
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	require.NoError(t, err)
	require.Contains(t, string(body), `speaker_autogroup_reconciler_passes_total{result="success"}`)
	require.Contains(t, string(body), "speaker_autogroup_reconciler_discovered_speakers 3")

	cancel()
	require.NoError(t, <-done)

	groups := realGroups(t, dial(t, addr), "Bedroom")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 3)
}

// TestStatus_SurveysWithoutJoining prints the table and leaves the household untouched.
func TestStatus_SurveysWithoutJoining(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	stop := startBridge(t, addr, ungroupedHousehold(t))
	defer stop()

	var out bytes.Buffer

	err := status.Run(context.Background(), &status.Options{
		ConfigPath: writeConfig(t, addr, nil),
		Output:     &out,
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "join Living Room, then Bedroom")
	require.Contains(t, out.String(), "receive join from Kitchen")

	require.Empty(t, realGroups(t, dial(t, addr), "Kitchen"))
}
