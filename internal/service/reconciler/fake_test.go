package reconciler

import (
	"context"
	"time"

	"github.com/oshokin/speaker-autogroup/internal/directory"
	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
)

// findCall records one Find invocation.
type findCall struct {
	name   string
	budget time.Duration
}

// fakeDirectory is a scripted Directory that records every lookup and join.
type fakeDirectory struct {
	// speakers are returned by Discover in this order.
	speakers []*fakeSpeaker
	// discoverErr is returned by Discover when set.
	discoverErr error
	// vanished lists names Find reports as missing.
	vanished map[string]bool
	// discoverBudget is the budget Discover was called with.
	discoverBudget time.Duration
	// finds lists every Find call.
	finds []findCall
	// joins lists every successful join as "speaker -> target".
	joins []string
	// attempts lists every join sent, failed ones included.
	attempts []string
}

// fakeSpeaker is a speaker with a fixed topology view.
type fakeSpeaker struct {
	dir      *fakeDirectory
	id       string
	name     string
	topology speaker.Topology
	// joinErr is returned by Join when set.
	joinErr error
	// targetErrs fails joins towards specific targets.
	targetErrs map[string]error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{vanished: make(map[string]bool)}
}

// add registers a speaker in discovery order.
func (d *fakeDirectory) add(id, name string, topology speaker.Topology) *fakeSpeaker {
	s := &fakeSpeaker{dir: d, id: id, name: name, topology: topology}
	d.speakers = append(d.speakers, s)

	return s
}

// Discover returns the scripted speakers.
func (d *fakeDirectory) Discover(_ context.Context, budget time.Duration) ([]directory.Speaker, error) {
	d.discoverBudget = budget

	if d.discoverErr != nil {
		return nil, d.discoverErr
	}

	result := make([]directory.Speaker, 0, len(d.speakers))
	for _, s := range d.speakers {
		result = append(result, s)
	}

	return result, nil
}

// Find resolves the first speaker carrying the name.
func (d *fakeDirectory) Find(_ context.Context, name string, budget time.Duration) (directory.Speaker, error) {
	d.finds = append(d.finds, findCall{name: name, budget: budget})

	if d.vanished[name] {
		return nil, directory.ErrNotFound
	}

	for _, s := range d.speakers {
		if s.name == name {
			return s, nil
		}
	}

	return nil, directory.ErrNotFound
}

func (s *fakeSpeaker) ID() string { return s.id }

func (s *fakeSpeaker) Name(context.Context) (string, error) { return s.name, nil }

func (s *fakeSpeaker) ZoneGroupState(context.Context) (speaker.Topology, error) {
	return s.topology.Clone(), nil
}

func (s *fakeSpeaker) Join(_ context.Context, target string) error {
	s.dir.attempts = append(s.dir.attempts, s.name+" -> "+target)

	if s.joinErr != nil {
		return s.joinErr
	}

	if err := s.targetErrs[target]; err != nil {
		return err
	}

	s.dir.joins = append(s.dir.joins, s.name+" -> "+target)

	return nil
}

// member builds a topology member for a fake speaker.
func member(id, name string) speaker.Member {
	return speaker.Member{ID: id, Name: name}
}

// alone is the topology of a speaker that sees only its own singleton group.
func alone(id, name string) speaker.Topology {
	return speaker.Topology{{Coordinator: id, Members: []speaker.Member{member(id, name)}}}
}
