package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestWithBudget checks timeout vs cancel-only behavior.
func TestWithBudget(t *testing.T) {
	t.Parallel()

	ctx, cancel := WithBudget(context.Background(), 0)
	_, ok := ctx.Deadline()
	require.False(t, ok)
	cancel()
	require.Error(t, ctx.Err())

	ctx, cancel = WithBudget(context.Background(), 10*time.Millisecond)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}
