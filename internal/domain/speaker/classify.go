package speaker

import (
	"errors"
	"fmt"
)

// ErrCoordinatorNotFound means a group names a coordinator that is not one of
// its members. Such a topology is malformed and must not be acted upon.
var ErrCoordinatorNotFound = errors.New("group coordinator is not a member")

// IsAlreadyGrouped reports whether the named speaker is a member of any real group.
func IsAlreadyGrouped(name string, topology Topology) bool {
	for _, g := range topology.RealGroups() {
		if g.HasMember(name) {
			return true
		}
	}

	return false
}

// FindCoordinatorToJoin returns the name of the coordinator the speaker should join.
// Only the first real group is considered. It returns false when no real group
// exists, when the speaker coordinates that group, or when it already belongs to it.
func FindCoordinatorToJoin(name string, topology Topology) (string, bool, error) {
	groups := topology.RealGroups()
	if len(groups) == 0 {
		return "", false, nil
	}

	// First real group wins.
	group := groups[0]

	coordinator, ok := group.CoordinatorMember()
	if !ok {
		return "", false, fmt.Errorf("%w: coordinator %q", ErrCoordinatorNotFound, group.Coordinator)
	}

	if coordinator.Name == name || group.HasMember(name) {
		return "", false, nil
	}

	return coordinator.Name, true, nil
}

// Classify derives the disposition of the named speaker from its topology snapshot.
func Classify(name string, topology Topology) (Disposition, error) {
	if IsAlreadyGrouped(name, topology) {
		return Disposition{Kind: AlreadyGrouped}, nil
	}

	coordinator, ok, err := FindCoordinatorToJoin(name, topology)
	if err != nil {
		return Disposition{}, err
	}

	if ok {
		return Disposition{Kind: JoinCoordinator, Coordinator: coordinator}, nil
	}

	return Disposition{Kind: NoGroupAvailable}, nil
}
