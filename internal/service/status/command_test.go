package status

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
	"github.com/oshokin/speaker-autogroup/internal/service/reconciler"
)

func TestRender(t *testing.T) {
	t.Parallel()

	report := &reconciler.Report{
		Discovered: 4,
		Entries: []reconciler.Entry{
			{Speaker: "Kitchen", Disposition: speaker.Disposition{Kind: speaker.AlreadyGrouped}},
			{Speaker: "Office", Disposition: speaker.Disposition{Kind: speaker.JoinCoordinator, Coordinator: "Kitchen"}},
			{Speaker: "Bedroom", Disposition: speaker.Disposition{Kind: speaker.NoGroupAvailable}},
			{Speaker: "Bath", Disposition: speaker.Disposition{Kind: speaker.NoGroupAvailable}},
		},
		Candidates: []string{"Bedroom", "Bath"},
	}

	var out bytes.Buffer

	Render(&out, report)

	rendered := out.String()
	require.Contains(t, rendered, "Kitchen")
	require.Contains(t, rendered, "join Kitchen")
	require.Contains(t, rendered, "join Bath")
	require.Contains(t, rendered, "receive join from Bedroom")
	require.Contains(t, rendered, "ungrouped: Bedroom, Bath")
}

func TestNextAction_SingleCandidate(t *testing.T) {
	t.Parallel()

	entry := reconciler.Entry{Speaker: "Bedroom", Disposition: speaker.Disposition{Kind: speaker.NoGroupAvailable}}

	require.Equal(t, "none, alone", nextAction(entry, []string{"Bedroom"}))
	require.Equal(t, "no ungrouped speakers", candidatesSummary(nil))
}

// TestNextAction_FollowsGroupAllDirection names the first candidate as the speaker that moves.
func TestNextAction_FollowsGroupAllDirection(t *testing.T) {
	t.Parallel()

	candidates := []string{"Kitchen", "Living Room", "Bedroom"}
	lone := speaker.Disposition{Kind: speaker.NoGroupAvailable}

	require.Equal(t, "join Living Room, then Bedroom",
		nextAction(reconciler.Entry{Speaker: "Kitchen", Disposition: lone}, candidates))
	require.Equal(t, "receive join from Kitchen",
		nextAction(reconciler.Entry{Speaker: "Bedroom", Disposition: lone}, candidates))
}
