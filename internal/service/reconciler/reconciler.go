package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/directory"
	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
	"github.com/oshokin/speaker-autogroup/internal/logger"
)

var (
	// ErrDiscovery means the speakers could not be enumerated.
	ErrDiscovery = errors.New("speaker discovery failed")
	// ErrResolution means a named speaker could not be resolved to a handle,
	// usually because it vanished between discovery and lookup.
	ErrResolution = errors.New("speaker resolution failed")
	// ErrTopology means a speaker reported a malformed zone topology.
	ErrTopology = errors.New("malformed zone topology")
	// ErrJoin means a join command failed.
	ErrJoin = errors.New("join failed")
)

// Timeouts holds the time budgets of the directory calls made by a pass.
type Timeouts struct {
	// Discovery bounds the discovery of all speakers.
	Discovery time.Duration
	// Lookup bounds each by-name lookup of a discovered speaker.
	Lookup time.Duration
	// GroupLookup bounds the lookup of the new coordinator in GroupAll.
	GroupLookup time.Duration
}

// DefaultTimeouts returns the budgets used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Discovery:   config.DefaultDiscoveryTimeout,
		Lookup:      config.DefaultLookupTimeout,
		GroupLookup: config.DefaultGroupLookupTimeout,
	}
}

// Entry is the disposition computed for one speaker.
type Entry struct {
	// Speaker is the display name of the classified speaker.
	Speaker string
	// Disposition is what the pass decided for it.
	Disposition speaker.Disposition
}

// Join records one issued join command.
type Join struct {
	// Speaker is the name of the speaker the command was sent to.
	Speaker string
	// Target is the name passed to the command.
	Target string
	// AdHoc is set for joins issued by GroupAll.
	AdHoc bool
}

// Report summarises one pass. It is filled progressively, so a failed pass
// still reports what happened before the failure.
type Report struct {
	// Discovered is the number of speakers returned by discovery.
	Discovered int
	// Entries lists one disposition per processed speaker, in discovery order.
	Entries []Entry
	// Joins lists the join commands that succeeded, in issue order.
	Joins []Join
	// Candidates lists the speakers collected for a new group.
	Candidates []string
}

// Reconciler drives grouping passes against a speaker directory.
type Reconciler struct {
	// dir is the speaker-control collaborator.
	dir directory.Directory
	// timeouts are the budgets of discovery and lookups.
	timeouts Timeouts
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithTimeouts overrides the call budgets. Non-positive values keep the defaults.
func WithTimeouts(timeouts Timeouts) Option {
	return func(r *Reconciler) {
		if timeouts.Discovery > 0 {
			r.timeouts.Discovery = timeouts.Discovery
		}

		if timeouts.Lookup > 0 {
			r.timeouts.Lookup = timeouts.Lookup
		}

		if timeouts.GroupLookup > 0 {
			r.timeouts.GroupLookup = timeouts.GroupLookup
		}
	}
}

// New creates a Reconciler over the given directory.
func New(dir directory.Directory, opts ...Option) *Reconciler {
	r := &Reconciler{
		dir:      dir,
		timeouts: DefaultTimeouts(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunPass performs one full pass: classify every discovered speaker, join the
// ones that have a group to join, then group the remaining ones together.
// Any error aborts the rest of the pass.
func (r *Reconciler) RunPass(ctx context.Context) (*Report, error) {
	return r.pass(ctx, true)
}

// Survey classifies every discovered speaker without issuing any join.
// Dispositions after the first would-be join may differ from a real pass,
// since a real join changes the topology seen by later speakers.
func (r *Reconciler) Survey(ctx context.Context) (*Report, error) {
	return r.pass(ctx, false)
}

// GroupAll makes every speaker after the first join the first one.
func (r *Reconciler) GroupAll(ctx context.Context, names []string) error {
	_, err := r.groupAll(ctx, names)

	return err
}

//nolint:cyclop // One switch per disposition reads better than a split.
func (r *Reconciler) pass(ctx context.Context, apply bool) (*Report, error) {
	report := new(Report)

	devices, err := r.dir.Discover(ctx, r.timeouts.Discovery)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}

	report.Discovered = len(devices)
	logger.DebugKV(ctx, "Discovered speakers", "count", len(devices))

	for _, device := range devices {
		name, handle, err := r.resolve(ctx, device)
		if err != nil {
			return report, err
		}

		topology, err := handle.ZoneGroupState(ctx)
		if err != nil {
			return report, fmt.Errorf("fetch zone group state of %q: %w", name, err)
		}

		disposition, err := speaker.Classify(name, topology)
		if err != nil {
			return report, fmt.Errorf("%w: reported by %q: %w", ErrTopology, name, err)
		}

		report.Entries = append(report.Entries, Entry{Speaker: name, Disposition: disposition})

		switch disposition.Kind {
		case speaker.AlreadyGrouped:
			logger.InfoKV(ctx, "Nothing to join", "speaker", name)
		case speaker.JoinCoordinator:
			if !apply {
				logger.InfoKV(ctx, "Would join group", "speaker", name, "coordinator", disposition.Coordinator)
				continue
			}

			if err := handle.Join(ctx, disposition.Coordinator); err != nil {
				return report, fmt.Errorf("%w: %q to %q: %w", ErrJoin, name, disposition.Coordinator, err)
			}

			report.Joins = append(report.Joins, Join{Speaker: name, Target: disposition.Coordinator})
			logger.InfoKV(ctx, "Joined group", "speaker", name, "coordinator", disposition.Coordinator)
		case speaker.NoGroupAvailable:
			logger.InfoKV(ctx, "No coordinator, collecting", "speaker", name)
			report.Candidates = append(report.Candidates, name)
		}
	}

	if !apply {
		return report, nil
	}

	joins, err := r.groupAll(ctx, report.Candidates)
	report.Joins = append(report.Joins, joins...)

	return report, err
}

// resolve reads the name of a discovered device and looks it up again by name.
func (r *Reconciler) resolve(ctx context.Context, device directory.Speaker) (string, directory.Speaker, error) {
	name, err := device.Name(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read name of %s: %w", ErrDiscovery, device.ID(), err)
	}

	handle, err := r.find(ctx, name, r.timeouts.Lookup)
	if err != nil {
		return "", nil, err
	}

	return name, handle, nil
}

func (r *Reconciler) find(ctx context.Context, name string, budget time.Duration) (directory.Speaker, error) {
	handle, err := r.dir.Find(ctx, name, budget)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, fmt.Errorf("%w: speaker %q does not exist", ErrResolution, name)
		}

		return nil, fmt.Errorf("%w: find %q: %w", ErrResolution, name, err)
	}

	return handle, nil
}
