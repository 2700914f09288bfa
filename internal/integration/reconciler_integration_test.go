package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
	"github.com/oshokin/speaker-autogroup/internal/service/reconciler"
)

// TestReconciler_ConvergesOverBridge groups three lone speakers through the real gRPC bridge.
func TestReconciler_ConvergesOverBridge(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	stop := startBridge(t, addr, ungroupedHousehold(t))
	defer stop()

	client := dial(t, addr)
	rec := reconciler.New(client)
	ctx := context.Background()

	// First pass: nobody has a group, so all three become candidates.
	report, err := rec.RunPass(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, report.Discovered)
	require.Equal(t, []string{"Kitchen", "Living Room", "Bedroom"}, report.Candidates)
	require.Len(t, report.Joins, 2)

	groups := realGroups(t, client, "Kitchen")
	require.Len(t, groups, 1)
	require.Equal(t, "Bedroom", coordinatorName(t, groups[0]))

	// Second pass: Living Room joins the group formed by the first pass.
	report, err = rec.RunPass(ctx)
	require.NoError(t, err)
	require.Empty(t, report.Candidates)
	require.Equal(t, []reconciler.Join{{Speaker: "Living Room", Target: "Bedroom"}}, report.Joins)

	groups = realGroups(t, client, "Living Room")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 3)
	require.Equal(t, "Bedroom", coordinatorName(t, groups[0]))

	// Third pass: steady state.
	report, err = rec.RunPass(ctx)
	require.NoError(t, err)
	require.Empty(t, report.Joins)

	for _, entry := range report.Entries {
		require.Equal(t, speaker.AlreadyGrouped, entry.Disposition.Kind, entry.Speaker)
	}
}

// TestReconciler_UnknownBridge fails discovery when nothing listens.
func TestReconciler_UnknownBridge(t *testing.T) {
	t.Parallel()

	client := dial(t, reservePort(t))

	_, err := reconciler.New(client).RunPass(context.Background())
	require.ErrorIs(t, err, reconciler.ErrDiscovery)
}
