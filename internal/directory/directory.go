// Package directory defines the speaker-control collaborator consumed by the
// reconciliation core: discovery, by-name resolution and per-speaker queries
// and commands. Implementations live in the remote (gRPC bridge) and memory
// (simulated household) subpackages.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
)

// ErrNotFound is returned by Find when no reachable speaker carries the name.
var ErrNotFound = errors.New("speaker not found")

// Speaker is a handle on one reachable speaker.
type Speaker interface {
	// ID returns the opaque unique identifier of the speaker.
	ID() string
	// Name reads the current display name.
	Name(ctx context.Context) (string, error)
	// ZoneGroupState reads the zone topology as seen by this speaker.
	ZoneGroupState(ctx context.Context) (speaker.Topology, error)
	// Join commands this speaker to join the group of the named speaker.
	Join(ctx context.Context, target string) error
}

// Directory enumerates and resolves speakers. Every call is bounded by the
// given time budget; exceeding it is reported as an error.
type Directory interface {
	// Discover lists every speaker that answered within the budget.
	Discover(ctx context.Context, budget time.Duration) ([]Speaker, error)
	// Find resolves a speaker by display name, or returns ErrNotFound.
	Find(ctx context.Context, name string, budget time.Duration) (Speaker, error)
}

// WithBudget derives a context bounded by budget. A non-positive budget only
// adds cancellation.
func WithBudget(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	if budget <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, budget)
}
