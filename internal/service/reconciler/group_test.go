package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGroupAll_Empty is a no-op that never touches the directory.
func TestGroupAll_Empty(t *testing.T) {
	t.Parallel()

	d := household3()

	require.NoError(t, New(d).GroupAll(context.Background(), nil))
	require.NoError(t, New(d).GroupAll(context.Background(), []string{}))
	require.Empty(t, d.finds)
	require.Empty(t, d.joins)
}

// TestGroupAll_JoinsInOrder sends every remaining name to the first speaker, in order.
func TestGroupAll_JoinsInOrder(t *testing.T) {
	t.Parallel()

	d := household3()

	err := New(d).GroupAll(context.Background(), []string{"Bedroom", "Kitchen", "Living Room"})
	require.NoError(t, err)

	require.Len(t, d.finds, 1)
	require.Equal(t, "Bedroom", d.finds[0].name)
	require.Equal(t, []string{"Bedroom -> Kitchen", "Bedroom -> Living Room"}, d.joins)
}

// TestGroupAll_MissingCoordinator fails with ErrResolution before any join.
func TestGroupAll_MissingCoordinator(t *testing.T) {
	t.Parallel()

	d := household3()

	err := New(d).GroupAll(context.Background(), []string{"Garage", "Kitchen"})
	require.ErrorIs(t, err, ErrResolution)
	require.Empty(t, d.joins)
}

// TestGroupAll_FailFast abandons the remaining joins after a failure.
func TestGroupAll_FailFast(t *testing.T) {
	t.Parallel()

	d := household3()
	d.speakers[0].joinErr = errNetwork

	joins, err := New(d).groupAll(context.Background(), []string{"Kitchen", "Living Room", "Bedroom"})
	require.ErrorIs(t, err, ErrJoin)
	require.Empty(t, joins)
	require.Empty(t, d.joins)
}

// TestGroupAll_StopsAfterPartialRun keeps the joins made before the failure and sends nothing after it.
func TestGroupAll_StopsAfterPartialRun(t *testing.T) {
	t.Parallel()

	d := household3()
	d.speakers[0].targetErrs = map[string]error{"Bedroom": errNetwork}

	joins, err := New(d).groupAll(context.Background(), []string{"Kitchen", "Living Room", "Bedroom", "Office"})
	require.ErrorIs(t, err, ErrJoin)
	require.ErrorIs(t, err, errNetwork)
	require.Equal(t, []Join{{Speaker: "Kitchen", Target: "Living Room", AdHoc: true}}, joins)
	require.Equal(t, []string{"Kitchen -> Living Room"}, d.joins)
	require.Equal(t, []string{"Kitchen -> Living Room", "Kitchen -> Bedroom"}, d.attempts)
	require.NotContains(t, d.attempts, "Kitchen -> Office")
}
