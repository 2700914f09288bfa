package speaker

import "strings"

// Member is one speaker listed inside a zone group.
type Member struct {
	// ID is the opaque unique identifier of the speaker (a RINCON_* UUID on Sonos).
	ID string
	// Name is the user-visible room name.
	Name string
}

// Group is a zone group as reported by a speaker.
type Group struct {
	// Coordinator is the unique identifier of the group's lead member.
	Coordinator string
	// Members lists every speaker of the group, coordinator included.
	Members []Member
}

// Topology is a point-in-time view of all zone groups, in reported order.
type Topology []Group

// IsReal reports whether the group has more than one member.
func (g *Group) IsReal() bool {
	return len(g.Members) > 1
}

// HasMember reports whether a speaker with the given name belongs to the group.
func (g *Group) HasMember(name string) bool {
	for _, m := range g.Members {
		if m.Name == name {
			return true
		}
	}

	return false
}

// CoordinatorMember resolves the coordinator identifier to one of the members.
// Identifiers are compared case-insensitively.
func (g *Group) CoordinatorMember() (Member, bool) {
	for _, m := range g.Members {
		if strings.EqualFold(m.ID, g.Coordinator) {
			return m, true
		}
	}

	return Member{}, false
}

// RealGroups returns the groups with more than one member, preserving order.
func (t Topology) RealGroups() []Group {
	var groups []Group

	for i := range t {
		if t[i].IsReal() {
			groups = append(groups, t[i])
		}
	}

	return groups
}

// Clone returns a deep copy of the topology.
func (t Topology) Clone() Topology {
	if t == nil {
		return nil
	}

	cloned := make(Topology, len(t))
	for i, g := range t {
		cloned[i] = Group{
			Coordinator: g.Coordinator,
			Members:     append([]Member(nil), g.Members...),
		}
	}

	return cloned
}
