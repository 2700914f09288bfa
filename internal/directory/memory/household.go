// Package memory implements the speaker directory as a simulated household.
//
// Joins follow device semantics: the commanded speaker leaves its current
// group and enters the group of the named target. A coordinator that leaves
// hands its group to the next member. Every speaker sees the same topology.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/speaker-autogroup/internal/directory"
	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
	"github.com/oshokin/speaker-autogroup/internal/repository/household"
)

// ErrSelfJoin is returned when a speaker is asked to join itself.
var ErrSelfJoin = errors.New("speaker cannot join itself")

// Household is an in-memory set of speakers and zone groups.
type Household struct {
	// mu protects speakers and groups.
	mu sync.Mutex
	// speakers are kept in discovery order.
	speakers []member
	// groups are kept in creation order.
	groups []*zoneGroup
}

// member is one simulated speaker.
type member struct {
	id   string
	name string
}

// zoneGroup holds member identifiers; the coordinator is one of them.
type zoneGroup struct {
	coordinator string
	members     []string
}

// handle implements directory.Speaker for one household member.
type handle struct {
	household *Household
	id        string
}

// New builds a household from a layout.
func New(layout *household.Layout) (*Household, error) {
	layout.Normalize()

	if err := layout.Validate(); err != nil {
		return nil, err
	}

	h := new(Household)
	idByName := make(map[string]string, len(layout.Speakers))

	for _, s := range layout.Speakers {
		h.speakers = append(h.speakers, member{id: s.ID, name: s.Name})
		idByName[s.Name] = s.ID
	}

	declared := make(map[string]*household.GroupSpec)

	for i := range layout.Groups {
		g := &layout.Groups[i]
		for _, name := range append([]string{g.Coordinator}, g.Members...) {
			declared[name] = g
		}
	}

	created := make(map[*household.GroupSpec]bool)

	for _, s := range layout.Speakers {
		spec, ok := declared[s.Name]
		if !ok {
			h.groups = append(h.groups, &zoneGroup{coordinator: s.ID, members: []string{s.ID}})
			continue
		}

		if created[spec] {
			continue
		}

		created[spec] = true

		group := &zoneGroup{coordinator: idByName[spec.Coordinator]}
		for _, name := range append([]string{spec.Coordinator}, spec.Members...) {
			group.members = append(group.members, idByName[name])
		}

		h.groups = append(h.groups, group)
	}

	return h, nil
}

// Discover returns a handle for every speaker, in layout order.
func (h *Household) Discover(ctx context.Context, budget time.Duration) ([]directory.Speaker, error) {
	ctx, cancel := directory.WithBudget(ctx, budget)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	speakers := make([]directory.Speaker, 0, len(h.speakers))
	for _, m := range h.speakers {
		speakers = append(speakers, &handle{household: h, id: m.id})
	}

	return speakers, nil
}

// Find returns the first speaker with the given name.
func (h *Household) Find(ctx context.Context, name string, budget time.Duration) (directory.Speaker, error) {
	ctx, cancel := directory.WithBudget(ctx, budget)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.byName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", directory.ErrNotFound, name)
	}

	return &handle{household: h, id: m.id}, nil
}

// Speaker returns the handle of the speaker with the given identifier.
//
//nolint:ireturn // The bridge server consumes directory.Speaker.
func (h *Household) Speaker(id string) (directory.Speaker, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.byID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %q", directory.ErrNotFound, id)
	}

	return &handle{household: h, id: m.id}, nil
}

// Snapshot returns the current topology.
func (h *Household) Snapshot() speaker.Topology {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.topology()
}

func (h *Household) topology() speaker.Topology {
	topology := make(speaker.Topology, 0, len(h.groups))

	for _, g := range h.groups {
		members := make([]speaker.Member, 0, len(g.members))
		for _, id := range g.members {
			m, _ := h.byID(id)
			members = append(members, speaker.Member{ID: m.id, Name: m.name})
		}

		topology = append(topology, speaker.Group{Coordinator: g.coordinator, Members: members})
	}

	return topology
}

// join moves speaker id into the group of the named target.
func (h *Household) join(id, target string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	dst, ok := h.byName(target)
	if !ok {
		return fmt.Errorf("join target: %w: %q", directory.ErrNotFound, target)
	}

	if strings.EqualFold(dst.id, id) {
		return fmt.Errorf("%w: %q", ErrSelfJoin, target)
	}

	to := h.groupOf(dst.id)
	if slices.Contains(to.members, id) {
		return nil
	}

	h.leave(id)
	to.members = append(to.members, id)

	return nil
}

// leave removes id from its group, handing over or dropping the group as needed.
func (h *Household) leave(id string) {
	from := h.groupOf(id)
	from.members = slices.DeleteFunc(from.members, func(m string) bool { return m == id })

	if len(from.members) == 0 {
		h.groups = slices.DeleteFunc(h.groups, func(g *zoneGroup) bool { return g == from })
		return
	}

	if from.coordinator == id {
		from.coordinator = from.members[0]
	}
}

func (h *Household) groupOf(id string) *zoneGroup {
	for _, g := range h.groups {
		if slices.Contains(g.members, id) {
			return g
		}
	}

	// Every speaker is always in exactly one group.
	panic(fmt.Sprintf("speaker %q has no group", id))
}

func (h *Household) byName(name string) (member, bool) {
	for _, m := range h.speakers {
		if m.name == name {
			return m, true
		}
	}

	return member{}, false
}

func (h *Household) byID(id string) (member, bool) {
	for _, m := range h.speakers {
		if strings.EqualFold(m.id, id) {
			return m, true
		}
	}

	return member{}, false
}

// ID returns the speaker identifier.
func (s *handle) ID() string {
	return s.id
}

// Name returns the speaker display name.
func (s *handle) Name(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.household.mu.Lock()
	defer s.household.mu.Unlock()

	m, ok := s.household.byID(s.id)
	if !ok {
		return "", fmt.Errorf("%w: id %q", directory.ErrNotFound, s.id)
	}

	return m.name, nil
}

// ZoneGroupState returns the household topology.
func (s *handle) ZoneGroupState(ctx context.Context) (speaker.Topology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.household.Snapshot(), nil
}

// Join moves this speaker into the named speaker's group.
func (s *handle) Join(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.household.join(s.id, target)
}
